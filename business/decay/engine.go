package decay

import (
	"context"
	"fmt"
	"math"
	"time"

	"marketSearch/business/preference"
	"marketSearch/domain"
)

// Config carries the per-type half-lives and sweep bounds. Purchases decay
// at half the brand rate, so their effective half-life is twice the brand
// half-life; it is derived, never configured directly.
type Config struct {
	Enabled bool

	CategoryHalfLife   time.Duration
	BrandHalfLife      time.Duration
	ValueHalfLife      time.Duration
	PriceRangeHalfLife time.Duration

	// MaxPreferenceAge is the cutoff beyond which history list entries are
	// pruned by the sweep.
	MaxPreferenceAge time.Duration

	BatchSize    int
	PruneEpsilon float64
}

const day = 24 * time.Hour

func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		CategoryHalfLife:   30 * day,
		BrandHalfLife:      45 * day,
		ValueHalfLife:      60 * day,
		PriceRangeHalfLife: 30 * day,
		MaxPreferenceAge:   180 * day,
		BatchSize:          100,
		PruneEpsilon:       0.1,
	}
}

// PurchaseHalfLife derives the slower purchase signal half-life.
func (c Config) PurchaseHalfLife() time.Duration {
	return 2 * c.BrandHalfLife
}

// cacheInvalidator lets the engine evict stale cached profiles after a
// write; the preference service satisfies it.
type cacheInvalidator interface {
	InvalidateCache(userID uint)
}

type Engine struct {
	repo  preference.PreferenceRepository
	cache cacheInvalidator
	cfg   Config
}

func NewEngine(repo preference.PreferenceRepository, cache cacheInvalidator, cfg Config) *Engine {
	return &Engine{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

// decayFactor computes exp(-lambda * elapsed) with lambda = ln2 / halfLife.
func decayFactor(elapsed, halfLife time.Duration) float64 {
	if halfLife <= 0 || elapsed <= 0 {
		return 1.0
	}
	lambda := math.Ln2 / float64(halfLife)
	return math.Exp(-lambda * float64(elapsed))
}

// decayMap multiplies every weight by factor, pruning entries that drop
// below epsilon. Weights never go negative: factor is in (0, 1] and stored
// weights are non-negative.
func decayMap(m map[string]float64, factor, epsilon float64) {
	for k, v := range m {
		nv := v * factor
		if nv < epsilon {
			delete(m, k)
			continue
		}
		m[k] = nv
	}
}

func decayPriceRanges(p *domain.PreferenceProfile, factor, epsilon float64) {
	kept := p.PriceRanges[:0]
	for _, pr := range p.PriceRanges {
		pr.Weight *= factor
		if pr.Weight < epsilon {
			continue
		}
		kept = append(kept, pr)
	}
	p.PriceRanges = kept
}

// DecayProfile applies the exponential model to every weighted map of one
// profile and prunes history entries beyond the max-age cutoff. Elapsed time
// anchors on the profile's previous sweep (LastDecayedAt), falling back to
// LastUpdated, then to one day for legacy rows with neither.
func (e *Engine) DecayProfile(p *domain.PreferenceProfile, now time.Time) {
	anchor := p.LastDecayedAt
	if anchor.IsZero() {
		anchor = p.LastUpdated
	}
	if anchor.IsZero() {
		anchor = now.Add(-day)
	}
	elapsed := now.Sub(anchor)
	if elapsed <= 0 {
		p.LastDecayedAt = now
		return
	}

	decayMap(p.Categories, decayFactor(elapsed, e.cfg.CategoryHalfLife), e.cfg.PruneEpsilon)
	decayMap(p.Brands, decayFactor(elapsed, e.cfg.BrandHalfLife), e.cfg.PruneEpsilon)
	decayMap(p.Values, decayFactor(elapsed, e.cfg.ValueHalfLife), e.cfg.PruneEpsilon)
	decayPriceRanges(p, decayFactor(elapsed, e.cfg.PriceRangeHalfLife), e.cfg.PruneEpsilon)

	e.pruneHistories(p, now)

	p.LastDecayedAt = now
}

// pruneHistories removes list entries older than the max-age cutoff.
// Purchases use a doubled window: a stronger signal fades slower.
func (e *Engine) pruneHistories(p *domain.PreferenceProfile, now time.Time) {
	if e.cfg.MaxPreferenceAge <= 0 {
		return
	}
	cutoff := now.Add(-e.cfg.MaxPreferenceAge)
	purchaseCutoff := now.Add(-2 * e.cfg.MaxPreferenceAge)

	searches := p.RecentSearches[:0]
	for _, s := range p.RecentSearches {
		if s.SearchedAt.Before(cutoff) {
			continue
		}
		searches = append(searches, s)
	}
	p.RecentSearches = searches

	viewed := p.RecentlyViewed[:0]
	for _, v := range p.RecentlyViewed {
		if v.ViewedAt.Before(cutoff) {
			continue
		}
		viewed = append(viewed, v)
	}
	p.RecentlyViewed = viewed

	purchases := p.PurchaseHistory[:0]
	for _, pr := range p.PurchaseHistory {
		if pr.PurchasedAt.Before(purchaseCutoff) {
			continue
		}
		purchases = append(purchases, pr)
	}
	p.PurchaseHistory = purchases
}

// ApplyImmediateDecay multiplies every weight in one named map of one user's
// profile by a caller-supplied factor in (0, 1). This is the direct
// correction path for explicit interest-shift signals. Entries falling below
// the pruning epsilon are removed.
func (e *Engine) ApplyImmediateDecay(ctx context.Context, userID uint, prefType string, factor float64) error {
	if factor <= 0 || factor >= 1 {
		return fmt.Errorf("decay factor must be in (0, 1), got %v", factor)
	}

	profile, err := e.repo.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile for decay: %w", err)
	}
	if profile == nil {
		// nothing stored, nothing to decay
		return nil
	}

	switch prefType {
	case domain.PreferenceTypeCategories, domain.PreferenceTypeBrands, domain.PreferenceTypeValues:
		decayMap(profile.WeightMap(prefType), factor, e.cfg.PruneEpsilon)
	case domain.PreferenceTypePriceRanges:
		decayPriceRanges(profile, factor, e.cfg.PruneEpsilon)
	default:
		return fmt.Errorf("unknown preference type: %s", prefType)
	}

	if err := e.repo.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save decayed profile: %w", err)
	}
	if e.cache != nil {
		e.cache.InvalidateCache(userID)
	}
	return nil
}
