package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gig-marketplace-api/internal/notify"

	"github.com/labstack/echo"
)

type eventRoutesHandler struct {
	hub *notify.Hub
}

func newEventRoutesHandler(outer *echo.Group, hub *notify.Hub) *eventRoutesHandler {
	h := &eventRoutesHandler{hub: hub}
	outer.GET("/events", h.Stream, requireCaller)

	return h
}

// Stream holds an SSE connection open and forwards every event addressed
// to the caller's identity. Closing the request ends the session and
// removes it from the registry.
//
// /events
func (h *eventRoutesHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	events, unregister := h.hub.Register(callerId(c))
	defer unregister()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}

			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Name, payload)
			res.Flush()
		}
	}
}
