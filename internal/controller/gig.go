package controller

import (
	"net/http"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type gigRoutesHandler struct {
	gigService service.Gig
	validate   *validator.Validate
}

func newGigRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *gigRoutesHandler {
	h := &gigRoutesHandler{gigService: services.Gig, validate: v}
	outer.POST("/gigs", h.PostGig, requireCaller)
	outer.GET("/gigs", h.GetGigs)
	outer.GET("/gigs/my", h.GetMyGigs, requireCaller)
	outer.GET("/gigs/:gigId", h.GetGig)
	outer.PUT("/gigs/:gigId", h.PutGig, requireCaller)
	outer.DELETE("/gigs/:gigId", h.DeleteGig, requireCaller)

	return h
}

type postGigInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=2000"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
}

// /gigs
func (h *gigRoutesHandler) PostGig(c echo.Context) error {
	var input postGigInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.CreateGigInput{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		OwnerId:     callerId(c),
	}

	gig, err := h.gigService.CreateGig(c.Request().Context(), model)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error creating gig"})
	}

	return c.JSON(http.StatusCreated, gig)
}

// /gigs?search=
func (h *gigRoutesHandler) GetGigs(c echo.Context) error {
	gigs, err := h.gigService.GetOpenGigs(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error fetching gigs"})
	}

	return c.JSON(http.StatusOK, gigs)
}

// /gigs/my
func (h *gigRoutesHandler) GetMyGigs(c echo.Context) error {
	gigs, err := h.gigService.GetOwnerGigs(c.Request().Context(), callerId(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error fetching gigs"})
	}

	return c.JSON(http.StatusOK, gigs)
}

// /gigs/:gigId
func (h *gigRoutesHandler) GetGig(c echo.Context) error {
	gig, err := h.gigService.GetGigById(c.Request().Context(), c.Param("gigId"))
	if err == nil {
		return c.JSON(http.StatusOK, gig)
	}

	switch err {
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error fetching gig"})
	}
}

type putGigInput struct {
	Title       string  `json:"title" validate:"max=100"`
	Description string  `json:"description" validate:"max=2000"`
	Budget      float64 `json:"budget" validate:"omitempty,gt=0"`
}

// /gigs/:gigId
func (h *gigRoutesHandler) PutGig(c echo.Context) error {
	var input putGigInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if input.Title == "" && input.Description == "" && input.Budget == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{"Gig updates required, set title, description and/or budget"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	model := &entity.EditGigInput{
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
	}

	gig, err := h.gigService.EditGigById(c.Request().Context(), c.Param("gigId"), callerId(c), model)
	if err == nil {
		return c.JSON(http.StatusOK, gig)
	}

	switch err {
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"})
	case service.ErrNotGigOwner:
		return c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can update it"})
	case service.ErrGigNotOpen:
		return c.JSON(http.StatusBadRequest, errorResponse{"Assigned gigs can't be updated"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error updating gig"})
	}
}

// /gigs/:gigId
func (h *gigRoutesHandler) DeleteGig(c echo.Context) error {
	err := h.gigService.DeleteGigById(c.Request().Context(), c.Param("gigId"), callerId(c))
	if err == nil {
		return c.JSON(http.StatusOK, map[string]string{"message": "Gig deleted successfully"})
	}

	switch err {
	case service.ErrGigNotFound:
		return c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"})
	case service.ErrNotGigOwner:
		return c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can delete it"})
	case service.ErrGigNotOpen:
		return c.JSON(http.StatusBadRequest, errorResponse{"Assigned gigs can't be deleted"})
	case service.ErrGigHasBids:
		return c.JSON(http.StatusConflict, errorResponse{"Gig already has bids and can't be deleted"})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{"Error deleting gig"})
	}
}
