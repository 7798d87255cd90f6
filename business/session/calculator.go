package session

import (
	"context"
	"time"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
)

// Base weights per interaction kind. Session weighting is deliberately a
// linear 24h recency model, separate from the profile store's exponential
// decay: it answers "what is this visitor doing right now", not "who is
// this user over months".
const (
	clickBaseWeight      = 0.8
	impressionBaseWeight = 0.1
	searchBaseWeight     = 0.7
	filterBaseWeight     = 0.6
	viewBaseWeight       = 0.5

	dwellCapMinutes    = 2.0
	productViewCap     = 0.9
	productViewSeconds = 60.0

	scrollMinWeight = 0.1
	scrollMaxWeight = 0.8

	recencyWindowHours = 24.0
)

type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error)
}

// Calculator derives the transient signal set from a session's interaction
// window. Stateless: every call is a full recompute, safe under unbounded
// concurrency.
type Calculator struct {
	sessions SessionRepository
}

func NewCalculator(sessions SessionRepository) *Calculator {
	return &Calculator{sessions: sessions}
}

// ComputeWeights loads the session and computes its weight maps. Missing
// sessions and store failures degrade to the all-empty structure; the
// ranking path never fails on this.
func (c *Calculator) ComputeWeights(ctx context.Context, sessionID string) domain.SessionWeights {
	state, err := c.sessions.GetSession(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load session, serving empty weights", "session_id", sessionID, "error", err)
		return domain.EmptySessionWeights()
	}
	if state == nil {
		return domain.EmptySessionWeights()
	}
	return ComputeFromState(state, time.Now())
}

// recencyWeight decays linearly from 1 at the moment of interaction to 0 at
// 24 hours, floored at 0.
func recencyWeight(at, now time.Time) float64 {
	hours := now.Sub(at).Hours()
	if hours < 0 {
		hours = 0
	}
	w := 1.0 - hours/recencyWindowHours
	if w < 0 {
		return 0
	}
	return w
}

// ComputeFromState is the pure core: identical input lists yield identical
// output maps. Internal errors on one interaction skip only that
// interaction.
func ComputeFromState(state *domain.SessionState, now time.Time) domain.SessionWeights {
	weights := domain.EmptySessionWeights()
	if state == nil {
		return weights
	}

	for _, interaction := range state.Interactions {
		recency := recencyWeight(interaction.Timestamp, now)
		if recency <= 0 {
			continue
		}
		applyInteraction(&weights, interaction, recency)
	}

	return weights
}

func applyInteraction(w *domain.SessionWeights, it domain.SessionInteraction, recency float64) {
	switch it.Type {
	case domain.InteractionClick:
		if id := payloadString(it.Payload, "entity_id", "product_id"); id != "" {
			w.Entities[id] += recency * clickBaseWeight
		}

	case domain.InteractionDwellTime:
		id := payloadString(it.Payload, "product_id")
		if id == "" {
			return
		}
		minutes := payloadFloat(it.Payload, "seconds") / 60.0
		base := minutes / dwellCapMinutes
		if base > 1.0 {
			base = 1.0
		}
		if base <= 0 {
			return
		}
		w.Entities[id] += recency * base

	case domain.InteractionImpression:
		for _, id := range payloadStrings(it.Payload, "product_ids") {
			w.Entities[id] += recency * impressionBaseWeight
		}

	case domain.InteractionSearch:
		if q := payloadString(it.Payload, "query"); q != "" {
			w.Queries[q] += recency * searchBaseWeight
		}

	case domain.InteractionFilterApply:
		applyFilterInteraction(w, it.Payload, recency)

	case domain.InteractionView:
		// generic view routes by payload discriminator
		if c := payloadString(it.Payload, "category"); c != "" {
			w.Categories[c] += recency * viewBaseWeight
		}
		if b := payloadString(it.Payload, "brand"); b != "" {
			w.Brands[b] += recency * viewBaseWeight
		}

	case domain.InteractionScrollDepth:
		applyScrollInteraction(w, it.Payload, recency)

	case domain.InteractionProductView:
		applyProductViewInteraction(w, it.Payload, recency)
	}
}

func applyFilterInteraction(w *domain.SessionWeights, payload map[string]any, recency float64) {
	filters := payloadStringMap(payload, "filters")
	for dimension, value := range filters {
		if value == "" {
			continue
		}
		w.Filters[dimension+":"+value] += recency * filterBaseWeight
		// category and brand filters mirror into their own maps
		switch dimension {
		case "category":
			w.Categories[value] += recency * filterBaseWeight
		case "brand":
			w.Brands[value] += recency * filterBaseWeight
		}
	}
}

// applyScrollInteraction tracks a running maximum per page type, not a sum:
// scrolling the same page twice is not twice the interest.
func applyScrollInteraction(w *domain.SessionWeights, payload map[string]any, recency float64) {
	pct := payloadFloat(payload, "percentage")
	if pct <= 0 {
		return
	}
	if pct > 100 {
		pct = 100
	}

	weight := scrollMinWeight + (pct/100.0)*(scrollMaxWeight-scrollMinWeight)
	pageType := payloadString(payload, "page_type")
	if pageType == "" {
		pageType = "page"
	}

	scored := recency * weight
	if scored > w.ScrollDepth[pageType] {
		w.ScrollDepth[pageType] = scored
	}
}

func applyProductViewInteraction(w *domain.SessionWeights, payload map[string]any, recency float64) {
	id := payloadString(payload, "product_id")
	if id == "" {
		return
	}

	viewSeconds := payloadFloat(payload, "view_seconds")
	base := (viewSeconds / productViewSeconds) * productViewCap
	if base > productViewCap {
		base = productViewCap
	}
	if base <= 0 {
		return
	}

	scored := recency * base
	w.Entities[id] += scored
	w.ProductViews[id] += scored
	w.ViewTime[id] += viewSeconds

	// category/brand get half the entity weight
	for _, c := range payloadStrings(payload, "categories") {
		w.Categories[c] += scored * 0.5
	}
	if b := payloadString(payload, "brand"); b != "" {
		w.Brands[b] += scored * 0.5
	}
}
