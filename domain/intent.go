package domain

// IntentEntity is one typed entity extracted from the query by the external
// NLP collaborator.
type IntentEntity struct {
	Type       string  `json:"type"` // category, brand, value, color, material
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// QueryIntent is the externally supplied intent signal. Read-only; this
// service never runs extraction itself.
type QueryIntent struct {
	Intent   string         `json:"intent"`
	Entities []IntentEntity `json:"entities,omitempty"`
}
