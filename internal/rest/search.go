package rest

import (
	"context"
	"net/http"
	"time"

	"marketSearch/business/boost"
	"marketSearch/domain"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SearchHandler struct {
		validate *validator.Validate
		composer QueryComposer
		index    SearchIndex
	}

	QueryComposer interface {
		Compose(ctx context.Context, req boost.ComposeRequest) domain.BoostedQuery
	}

	SearchIndex interface {
		Search(ctx context.Context, query domain.BoostedQuery, cursor string) (domain.SearchResult, error)
	}

	SearchRequest struct {
		Query        string              `json:"query" validate:"required"`
		Filters      map[string]string   `json:"filters,omitempty"`
		Page         int                 `json:"page"`
		PageSize     int                 `json:"page_size" validate:"omitempty,max=100"`
		SessionID    string              `json:"session_id,omitempty"`
		ClientID     string              `json:"client_id,omitempty"`
		ExperimentID string              `json:"experiment_id,omitempty"`
		Profile      string              `json:"profile,omitempty"`
		Intent       *domain.QueryIntent `json:"intent,omitempty"`
		Cursor       string              `json:"cursor,omitempty"`
	}

	SearchResponse struct {
		IDs     []string `json:"ids"`
		Total   int64    `json:"total"`
		Cursor  string   `json:"cursor,omitempty"`
		Profile string   `json:"profile"`
	}
)

func NewSearchHandler(composer QueryComposer, index SearchIndex) *SearchHandler {
	return &SearchHandler{
		validate: validator.New(),
		composer: composer,
		index:    index,
	}
}

// POST /api/v1/search
// The boosted query is always served; an unreachable index degrades to an
// empty result set rather than an error so the storefront can render.
func (h *SearchHandler) Search(c echo.Context) error {
	userID, _ := c.Get("user_id").(uint)

	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	ctx := c.Request().Context()
	started := time.Now()

	boosted := h.composer.Compose(ctx, boost.ComposeRequest{
		Base: domain.SearchQuery{
			Query:    req.Query,
			Filters:  req.Filters,
			Page:     req.Page,
			PageSize: req.PageSize,
		},
		UserID:       userID,
		SessionID:    req.SessionID,
		ClientID:     req.ClientID,
		ExperimentID: req.ExperimentID,
		Intent:       req.Intent,
		Profile:      req.Profile,
	})

	result, err := h.index.Search(ctx, boosted, req.Cursor)
	if err != nil {
		logger.Error("search index failed, serving empty results", "query", req.Query, "error", err)
		result = domain.SearchResult{IDs: []string{}}
	}

	metrics.SearchLatency.Observe(time.Since(started).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(SearchResponse{
		IDs:     result.IDs,
		Total:   result.Total,
		Cursor:  result.Cursor,
		Profile: boosted.Profile,
	}))
}
