package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type InteractionType string

const (
	InteractionSearch        InteractionType = "SEARCH"
	InteractionViewProduct   InteractionType = "VIEW_PRODUCT"
	InteractionAddToCart     InteractionType = "ADD_TO_CART"
	InteractionPurchase      InteractionType = "PURCHASE"
	InteractionFilterApply   InteractionType = "FILTER_APPLY"
	InteractionClickCategory InteractionType = "CLICK_CATEGORY"
	InteractionClickBrand    InteractionType = "CLICK_BRAND"
	InteractionImpression    InteractionType = "IMPRESSION"
	InteractionDwellTime     InteractionType = "DWELL_TIME"

	// Session-only kinds: they feed the session weight calculator but
	// carry no durable profile increment.
	InteractionClick       InteractionType = "CLICK"
	InteractionView        InteractionType = "VIEW"
	InteractionScrollDepth InteractionType = "SCROLL_DEPTH"
	InteractionProductView InteractionType = "PRODUCT_VIEW"
)

// InteractionEvent is one raw user interaction. Immutable, append-only;
// consumed synchronously by the recorder and kept in the event log for
// offline analysis.
type InteractionEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"column:user_id;index" json:"user_id"`
	SessionID string            `gorm:"column:session_id;index" json:"session_id"`
	Type      InteractionType   `gorm:"column:event_type;not null" json:"event_type"`
	Timestamp time.Time         `gorm:"column:event_time;not null" json:"event_time"`
	Payload   datatypes.JSONMap `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InteractionEvent) TableName() string { return "interaction_events" }

// Typed payloads, one per interaction kind. The open payload map is decoded
// into the variant for the event's type so each consumer only sees the
// fields it needs.

type SearchPayload struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Value    string `json:"value,omitempty"`
}

type ProductPayload struct {
	ProductID  string   `json:"product_id"`
	Categories []string `json:"categories,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Values     []string `json:"values,omitempty"`
	Price      float64  `json:"price,omitempty"`
}

type FilterPayload struct {
	// Filters maps filter dimension (category, brand, value, ...) to the
	// selected value.
	Filters map[string]string `json:"filters"`
}

type ClickPayload struct {
	Target string `json:"target"`
}

type ImpressionPayload struct {
	ProductIDs []string `json:"product_ids"`
}

type DwellPayload struct {
	ProductID string  `json:"product_id"`
	Seconds   float64 `json:"seconds"`
}

// DecodePayload unmarshals the event's payload map into out, which should be
// a pointer to the typed payload for the event's kind.
func (e InteractionEvent) DecodePayload(out any) error {
	raw, err := json.Marshal(map[string]any(e.Payload))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
