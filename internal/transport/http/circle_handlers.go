package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirecircle/internal/core"
)

// CircleHandlers provides HTTP handlers for circle inspection.
type CircleHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewCircleHandlers creates a new circle handlers instance.
func NewCircleHandlers(hub *core.Hub, logger *zerolog.Logger) *CircleHandlers {
	return &CircleHandlers{hub: hub, log: logger}
}

// CircleResponse represents a live circle in API responses.
type CircleResponse struct {
	ID       string `json:"id"`
	Members  int    `json:"members"`
	Messages int    `json:"messages"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListCircles handles listing live circles.
// GET /api/circles
func (h *CircleHandlers) ListCircles(c *gin.Context) {
	circles, err := h.hub.Circles(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list circles")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}

	response := make([]CircleResponse, 0, len(circles))
	for _, circle := range circles {
		response = append(response, CircleResponse{
			ID:       circle.ID,
			Members:  circle.Members,
			Messages: circle.Messages,
		})
	}

	h.log.Debug().Int("circle_count", len(response)).Msg("circles listed")
	c.JSON(http.StatusOK, response)
}
