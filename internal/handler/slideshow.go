package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const defaultSlideshowInterval = 15

type slideshowControlRequest struct {
	Action   string `json:"action"`
	Interval int    `json:"interval"`
}

// HandleSlideshowStatus reports the slideshow defaults. Playback state lives
// entirely in the client; the server only hands out the initial settings.
func (h *Handler) HandleSlideshowStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"playing":  true,
		"interval": defaultSlideshowInterval,
	})
}

// HandleSlideshowControl acknowledges a control command back to the client.
func (h *Handler) HandleSlideshowControl(c echo.Context) error {
	var req slideshowControlRequest
	if err := c.Bind(&req); err != nil || req.Action == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Action is required"})
	}

	interval := req.Interval
	if interval == 0 {
		interval = defaultSlideshowInterval
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"action":   req.Action,
		"interval": interval,
	})
}
