package preference

// Config fixes the per-event increments, history caps and the pruning
// epsilon for the preference store.
type Config struct {
	SearchIncrement   float64
	ViewIncrement     float64
	CartIncrement     float64
	PurchaseIncrement float64
	ClickIncrement    float64
	FilterIncrement   float64

	MaxPriceRanges     int
	MaxRecentSearches  int
	MaxRecentlyViewed  int
	MaxPurchaseHistory int

	// Weights that fall below PruneEpsilon are removed, not retained near
	// zero.
	PruneEpsilon float64
}

const (
	defaultSearchIncrement   = 0.2
	defaultViewIncrement     = 0.1
	defaultCartIncrement     = 0.2
	defaultPurchaseIncrement = 0.5
	defaultClickIncrement    = 0.25
	defaultFilterIncrement   = 0.15

	defaultMaxPriceRanges     = 5
	defaultMaxRecentSearches  = 10
	defaultMaxRecentlyViewed  = 20
	defaultMaxPurchaseHistory = 50

	defaultPruneEpsilon = 0.1
)

func DefaultConfig() Config {
	return Config{
		SearchIncrement:   defaultSearchIncrement,
		ViewIncrement:     defaultViewIncrement,
		CartIncrement:     defaultCartIncrement,
		PurchaseIncrement: defaultPurchaseIncrement,
		ClickIncrement:    defaultClickIncrement,
		FilterIncrement:   defaultFilterIncrement,

		MaxPriceRanges:     defaultMaxPriceRanges,
		MaxRecentSearches:  defaultMaxRecentSearches,
		MaxRecentlyViewed:  defaultMaxRecentlyViewed,
		MaxPurchaseHistory: defaultMaxPurchaseHistory,

		PruneEpsilon: defaultPruneEpsilon,
	}
}
