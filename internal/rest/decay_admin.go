package rest

import (
	"context"
	"net/http"

	"marketSearch/business/decay"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	DecayAdminHandler struct {
		validate *validator.Validate
		engine   DecayService
	}

	DecayService interface {
		RunSweep(ctx context.Context) (decay.SweepStats, error)
		ApplyImmediateDecay(ctx context.Context, userID uint, prefType string, factor float64) error
	}

	ImmediateDecayRequest struct {
		UserID         uint    `json:"user_id" validate:"required"`
		PreferenceType string  `json:"preference_type" validate:"required,oneof=categories brands values priceRanges"`
		Factor         float64 `json:"factor" validate:"required,gt=0,lt=1"`
	}
)

func NewDecayAdminHandler(engine DecayService) *DecayAdminHandler {
	return &DecayAdminHandler{
		validate: validator.New(),
		engine:   engine,
	}
}

// POST /api/v1/admin/decay/sweep
// Runs a full sweep synchronously and reports what it touched.
func (h *DecayAdminHandler) Sweep(c echo.Context) error {
	stats, err := h.engine.RunSweep(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

// POST /api/v1/admin/decay/immediate
func (h *DecayAdminHandler) Immediate(c echo.Context) error {
	var req ImmediateDecayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.engine.ApplyImmediateDecay(c.Request().Context(), req.UserID, req.PreferenceType, req.Factor); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("decay applied"))
}
