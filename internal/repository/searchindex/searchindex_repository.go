package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"marketSearch/domain"
	"marketSearch/pkg/config"
)

// Repository executes boosted queries against the external full-text index
// service. It only translates wire shapes; scoring semantics live entirely
// in the query it is handed.
type Repository struct {
	cfg    config.SearchIndexConfig
	client *http.Client
}

func NewRepository(cfg config.SearchIndexConfig) *Repository {
	return &Repository{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	Query  domain.BoostedQuery `json:"query"`
	Cursor string              `json:"cursor,omitempty"`
}

type searchResponse struct {
	IDs    []string `json:"ids"`
	Total  int64    `json:"total"`
	Cursor string   `json:"cursor,omitempty"`
}

func (r *Repository) Search(ctx context.Context, query domain.BoostedQuery, cursor string) (domain.SearchResult, error) {
	payload, err := json.Marshal(searchRequest{Query: query, Cursor: cursor})
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := r.cfg.BaseURL + "/v1/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("search index unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return domain.SearchResult{}, fmt.Errorf("search index returned %d: %s", res.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	return domain.SearchResult{
		IDs:    decoded.IDs,
		Total:  decoded.Total,
		Cursor: decoded.Cursor,
	}, nil
}
