package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PriceRangeWeight is one bucketed price band with its accumulated weight.
// MaxPrice < 0 means the band is open-ended ([500, inf)).
type PriceRangeWeight struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Weight   float64 `json:"weight"`
}

// Contains reports whether price falls inside the band.
func (pr PriceRangeWeight) Contains(price float64) bool {
	if price < pr.MinPrice {
		return false
	}
	if pr.MaxPrice < 0 {
		return true
	}
	return price < pr.MaxPrice
}

type SearchRecord struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}

type ViewedProduct struct {
	ProductID string    `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

type PurchaseRecord struct {
	ProductID   string    `json:"product_id"`
	Categories  []string  `json:"categories,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PreferenceProfile is the durable, decaying interest model for one user.
// Weights are always >= 0; entries below the pruning epsilon are removed
// rather than kept near zero. History lists are capped, newest-first.
type PreferenceProfile struct {
	UserID uint `json:"user_id"`

	Categories map[string]float64 `json:"categories"`
	Brands     map[string]float64 `json:"brands"`
	Values     map[string]float64 `json:"values"`

	// PriceRanges stays sorted descending by weight, truncated to the
	// configured cap.
	PriceRanges []PriceRangeWeight `json:"price_ranges"`

	RecentSearches  []SearchRecord   `json:"recent_searches"`
	RecentlyViewed  []ViewedProduct  `json:"recently_viewed"`
	PurchaseHistory []PurchaseRecord `json:"purchase_history"`

	LastUpdated time.Time `json:"last_updated"`

	// LastDecayedAt anchors the scheduled sweep so repeated sweeps do not
	// double-decay. Zero for profiles that were never swept.
	LastDecayedAt time.Time `json:"last_decayed_at"`

	ExtensionData datatypes.JSONMap `json:"extension_data,omitempty"`
}

// NewPreferenceProfile creates an all-empty profile. Profiles are created
// lazily on first access and only persisted once something is written.
func NewPreferenceProfile(userID uint) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:          userID,
		Categories:      make(map[string]float64),
		Brands:          make(map[string]float64),
		Values:          make(map[string]float64),
		PriceRanges:     make([]PriceRangeWeight, 0),
		RecentSearches:  make([]SearchRecord, 0),
		RecentlyViewed:  make([]ViewedProduct, 0),
		PurchaseHistory: make([]PurchaseRecord, 0),
		LastUpdated:     time.Now(),
	}
}

// Clone returns a deep copy. Cached profiles are shared across request
// goroutines, so readers and the recorder must each work on their own copy.
func (p *PreferenceProfile) Clone() *PreferenceProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Categories = cloneWeights(p.Categories)
	out.Brands = cloneWeights(p.Brands)
	out.Values = cloneWeights(p.Values)
	out.PriceRanges = append([]PriceRangeWeight(nil), p.PriceRanges...)
	out.RecentSearches = append([]SearchRecord(nil), p.RecentSearches...)
	out.RecentlyViewed = append([]ViewedProduct(nil), p.RecentlyViewed...)
	out.PurchaseHistory = append([]PurchaseRecord(nil), p.PurchaseHistory...)
	for i := range out.PurchaseHistory {
		out.PurchaseHistory[i].Categories = append([]string(nil), p.PurchaseHistory[i].Categories...)
	}
	if p.ExtensionData != nil {
		out.ExtensionData = make(datatypes.JSONMap, len(p.ExtensionData))
		for k, v := range p.ExtensionData {
			out.ExtensionData[k] = v
		}
	}
	return &out
}

func cloneWeights(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WeightMap returns the named weight map, or nil when the name does not
// refer to a map-shaped preference type (price ranges are a list).
func (p *PreferenceProfile) WeightMap(prefType string) map[string]float64 {
	switch prefType {
	case PreferenceTypeCategories:
		return p.Categories
	case PreferenceTypeBrands:
		return p.Brands
	case PreferenceTypeValues:
		return p.Values
	default:
		return nil
	}
}

// Preference type names accepted by decay operations.
const (
	PreferenceTypeCategories  = "categories"
	PreferenceTypeBrands      = "brands"
	PreferenceTypeValues      = "values"
	PreferenceTypePriceRanges = "priceRanges"
)
