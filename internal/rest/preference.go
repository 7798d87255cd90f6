package rest

import (
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type PreferenceHandler struct {
	preference PreferenceService
}

func NewPreferenceHandler(svc PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preference: svc}
}

// GET /api/v1/preferences
func (h *PreferenceHandler) Get(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	profile := h.preference.GetUserPreferences(c.Request().Context(), userID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// DELETE /api/v1/preferences
// The user data-clear endpoint; the only path that removes a profile.
func (h *PreferenceHandler) Clear(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok || userID == 0 {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.preference.ClearUserPreferences(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("preferences cleared"))
}
