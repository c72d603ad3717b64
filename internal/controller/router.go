package controller

import (
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, hub *notify.Hub, m *metrics.Metrics) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newGigRoutesHandler(api, services, validate)
	newBidRoutesHandler(api, services, validate)
	newEventRoutesHandler(api, hub)

	handler.GET("/metrics", echo.WrapHandler(m.Handler()))
}
