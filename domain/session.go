package domain

import "time"

// SessionInteraction is one entry in an anonymous session's ordered
// interaction list. The payload stays an open map here: session state is
// transient and read back only by the weight calculator.
type SessionInteraction struct {
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   map[string]any  `json:"payload,omitempty"`
}

// SessionState is the ephemeral interaction window for one anonymous
// session (cookie id). Created on first interaction; contributes near-zero
// weight after ~24h of inactivity.
type SessionState struct {
	SessionID        string               `json:"session_id"`
	StartTime        time.Time            `json:"start_time"`
	LastActivityTime time.Time            `json:"last_activity_time"`
	Interactions     []SessionInteraction `json:"interactions"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID:        sessionID,
		StartTime:        now,
		LastActivityTime: now,
		Interactions:     make([]SessionInteraction, 0),
	}
}

// SessionWeights is the derived, never-persisted signal set recomputed from
// a session's interaction list on every call. Absent keys simply do not
// appear in the maps.
type SessionWeights struct {
	Entities     map[string]float64 `json:"entities"`
	Categories   map[string]float64 `json:"categories"`
	Brands       map[string]float64 `json:"brands"`
	Queries      map[string]float64 `json:"queries"`
	Filters      map[string]float64 `json:"filters"`
	ScrollDepth  map[string]float64 `json:"scroll_depth"`
	ProductViews map[string]float64 `json:"product_views"`
	ViewTime     map[string]float64 `json:"view_time"`
}

// EmptySessionWeights returns the fixed-shape structure with all eight maps
// allocated and empty. Internal calculator errors degrade to this value.
func EmptySessionWeights() SessionWeights {
	return SessionWeights{
		Entities:     make(map[string]float64),
		Categories:   make(map[string]float64),
		Brands:       make(map[string]float64),
		Queries:      make(map[string]float64),
		Filters:      make(map[string]float64),
		ScrollDepth:  make(map[string]float64),
		ProductViews: make(map[string]float64),
		ViewTime:     make(map[string]float64),
	}
}
