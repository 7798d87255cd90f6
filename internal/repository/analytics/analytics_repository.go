package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketSearch/pkg/config"
	"marketSearch/pkg/logger"

	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// Repository ships assignment impressions to the external analytics
// collector. Delivery is best effort: failures are logged, never returned,
// and never block a search.
type Repository struct {
	cfg    config.AnalyticsConfig
	client *http.Client
}

func NewRepository(cfg config.AnalyticsConfig) *Repository {
	return &Repository{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type assignmentEvent struct {
	EventID      string    `json:"event_id"`
	Event        string    `json:"event"`
	UserID       uint      `json:"user_id,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	ExperimentID string    `json:"experiment_id"`
	VariantID    string    `json:"variant_id"`
	Timestamp    time.Time `json:"timestamp"`
}

func (r *Repository) TrackAssignment(ctx context.Context, userID uint, experimentID, variantID, clientID string) {
	if r.cfg.BaseURL == "" {
		return
	}

	// the collector dedupes retried deliveries on event_id
	event := assignmentEvent{
		EventID:      uuid.NewString(),
		Event:        "experiment_assignment",
		UserID:       userID,
		ClientID:     clientID,
		ExperimentID: experimentID,
		VariantID:    variantID,
		Timestamp:    time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal assignment event", "error", err)
		return
	}

	url := r.cfg.BaseURL + "/v1/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		logger.Error("failed to build analytics request", "error", err)
		return
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.cfg.BasicAuthUsername + ":" + r.cfg.BasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		logger.Warn("analytics delivery failed", "experiment_id", experimentID, "error", err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.Warn("analytics collector returned negative response",
			"experiment_id", experimentID,
			"status", fmt.Sprintf("%d", res.StatusCode))
	}
}
