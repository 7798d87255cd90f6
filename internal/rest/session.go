package rest

import (
	"context"
	"net/http"

	"marketSearch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	SessionHandler struct {
		calculator SessionService
	}

	SessionService interface {
		ComputeWeights(ctx context.Context, sessionID string) domain.SessionWeights
	}
)

func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{calculator: svc}
}

// GET /api/v1/sessions/:id/weights
// Weights are recomputed from raw interactions on every call; an unknown
// session yields all-empty maps, not an error.
func (h *SessionHandler) Weights(c echo.Context) error {
	sessionID := c.Param("id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session id is required"})
	}

	weights := h.calculator.ComputeWeights(c.Request().Context(), sessionID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(weights))
}
