package rest

import (
	"context"
	"net/http"
	"time"

	"marketSearch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ExperimentHandler struct {
		validate   *validator.Validate
		experiment ExperimentService
	}

	ExperimentService interface {
		Assign(ctx context.Context, experimentID string, userID uint, clientID string) domain.VariantAssignment
		GetExperiment(ctx context.Context, id string) (*domain.ExperimentDefinition, error)
		ListActiveExperiments(ctx context.Context) ([]domain.ExperimentDefinition, error)
		UpsertExperiment(ctx context.Context, def domain.ExperimentDefinition) error
	}

	UpsertExperimentRequest struct {
		Name      string                     `json:"name" validate:"required"`
		StartDate time.Time                  `json:"start_date" validate:"required"`
		EndDate   *time.Time                 `json:"end_date,omitempty"`
		IsActive  bool                       `json:"is_active"`
		Variants  []domain.ExperimentVariant `json:"variants" validate:"required,min=1,dive"`
	}
)

func NewExperimentHandler(svc ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{
		validate:   validator.New(),
		experiment: svc,
	}
}

// GET /api/v1/experiments/:id/assignment?client_id=...
func (h *ExperimentHandler) Assignment(c echo.Context) error {
	userID, _ := c.Get("user_id").(uint)

	experimentID := c.Param("id")
	if experimentID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "experiment id is required"})
	}

	assignment := h.experiment.Assign(c.Request().Context(), experimentID, userID, c.QueryParam("client_id"))

	return c.JSON(http.StatusOK, fres.Response.StatusOK(assignment))
}

// GET /api/v1/admin/experiments
func (h *ExperimentHandler) ListActive(c echo.Context) error {
	defs, err := h.experiment.ListActiveExperiments(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if defs == nil {
		defs = []domain.ExperimentDefinition{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(defs))
}

// GET /api/v1/admin/experiments/:id
func (h *ExperimentHandler) Get(c echo.Context) error {
	experimentID := c.Param("id")
	if experimentID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "experiment id is required"})
	}

	def, err := h.experiment.GetExperiment(c.Request().Context(), experimentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if def == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "experiment not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(def))
}

// PUT /api/v1/admin/experiments/:id
func (h *ExperimentHandler) Upsert(c echo.Context) error {
	experimentID := c.Param("id")
	if experimentID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "experiment id is required"})
	}

	var req UpsertExperimentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	def := domain.ExperimentDefinition{
		ID:        experimentID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
		Variants:  req.Variants,
	}

	if err := h.experiment.UpsertExperiment(c.Request().Context(), def); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(def))
}
