package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"marketSearch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	InteractionHandler struct {
		validate   *validator.Validate
		preference PreferenceService
		events     EventReader
	}

	PreferenceService interface {
		RecordInteraction(ctx context.Context, event domain.InteractionEvent) bool
		GetUserPreferences(ctx context.Context, userID uint) *domain.PreferenceProfile
		ClearUserPreferences(ctx context.Context, userID uint) error
	}

	// EventReader serves the admin event audit trail.
	EventReader interface {
		RecentEvents(ctx context.Context, userID uint, limit int) ([]domain.InteractionEvent, error)
	}

	InteractionRequest struct {
		SessionID string         `json:"session_id"`
		EventType string         `json:"event_type" validate:"required,oneof=SEARCH VIEW_PRODUCT ADD_TO_CART PURCHASE FILTER_APPLY CLICK_CATEGORY CLICK_BRAND IMPRESSION DWELL_TIME CLICK VIEW SCROLL_DEPTH PRODUCT_VIEW"`
		Timestamp *time.Time     `json:"timestamp,omitempty"`
		Payload   map[string]any `json:"payload"`
	}

	InteractionResponse struct {
		Recorded bool `json:"recorded"`
	}
)

func NewInteractionHandler(svc PreferenceService, events EventReader) *InteractionHandler {
	return &InteractionHandler{
		validate:   validator.New(),
		preference: svc,
		events:     events,
	}
}

// POST /api/v1/interactions
// Accepts both identified and anonymous traffic; at least one of the JWT
// user or a session_id must carry the event somewhere.
func (h *InteractionHandler) Record(c echo.Context) error {
	userID, _ := c.Get("user_id").(uint)

	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if userID == 0 && req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session_id is required for anonymous interactions"})
	}

	event := domain.InteractionEvent{
		UserID:    userID,
		SessionID: req.SessionID,
		Type:      domain.InteractionType(req.EventType),
		Payload:   req.Payload,
	}
	if req.Timestamp != nil {
		event.Timestamp = *req.Timestamp
	}

	recorded := h.preference.RecordInteraction(c.Request().Context(), event)

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK(InteractionResponse{Recorded: recorded}))
}

// GET /api/v1/admin/users/:id/events?limit=...
// Audit trail for one user's raw interaction events, newest first.
func (h *InteractionHandler) RecentEvents(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		if parsed > 500 {
			parsed = 500
		}
		limit = parsed
	}

	events, err := h.events.RecentEvents(c.Request().Context(), uint(userID), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if events == nil {
		events = []domain.InteractionEvent{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(events))
}
