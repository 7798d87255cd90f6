package boost

import (
	"time"

	"marketSearch/domain"

	gocache "github.com/patrickmn/go-cache"
)

// Profile names addressable by clients and experiment variants.
const (
	ProfileStandard   = "standard"
	ProfilePopularity = "popularity"
	ProfileRecency    = "recency"
	ProfilePreference = "preference"
	ProfileIntent     = "intent"
	ProfileHybrid     = "hybrid"
)

// DefaultProfiles builds the built-in scoring profiles. Personalization
// predicates are appended per request by the composer; the static profiles
// only declare field boosts and document-level scoring functions.
func DefaultProfiles() map[string]domain.ScoringProfile {
	return map[string]domain.ScoringProfile{
		ProfileStandard: {
			Name: ProfileStandard,
			FieldBoosts: map[string]float64{
				"name":        3.0,
				"brand":       2.0,
				"category":    1.5,
				"description": 1.0,
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
		ProfilePopularity: {
			Name: ProfilePopularity,
			FieldBoosts: map[string]float64{
				"name":  3.0,
				"brand": 2.0,
			},
			Functions: []domain.BoostFunction{
				{
					FieldValueFactor: &domain.FieldValueFactor{
						Field:    "sales_count",
						Factor:   1.2,
						Modifier: "sqrt",
					},
					Weight: 1.0,
				},
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
		ProfileRecency: {
			Name: ProfileRecency,
			FieldBoosts: map[string]float64{
				"name":  3.0,
				"brand": 2.0,
			},
			Functions: []domain.BoostFunction{
				{
					Decay: &domain.DecayFunction{
						Field:  "created_at",
						Scale:  "30d",
						Offset: "7d",
						Decay:  0.5,
					},
					Weight: 1.0,
				},
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
		ProfilePreference: {
			Name: ProfilePreference,
			FieldBoosts: map[string]float64{
				"name":     3.0,
				"brand":    2.0,
				"category": 1.5,
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
		ProfileIntent: {
			Name: ProfileIntent,
			FieldBoosts: map[string]float64{
				"name":     3.0,
				"category": 2.0,
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
		ProfileHybrid: {
			Name: ProfileHybrid,
			FieldBoosts: map[string]float64{
				"name":        3.0,
				"brand":       2.0,
				"category":    1.5,
				"description": 1.0,
			},
			Functions: []domain.BoostFunction{
				{
					FieldValueFactor: &domain.FieldValueFactor{
						Field:    "sales_count",
						Factor:   1.1,
						Modifier: "log1p",
					},
					Weight: 0.5,
				},
			},
			ScoreCombination: domain.CombineSum,
			BoostCombination: domain.BoostMultiply,
		},
	}
}

const profileCachePrefix = "profile:"

// ProfileCatalog serves scoring profiles by name through a TTL cache so that
// profile edits can be picked up without a restart.
type ProfileCatalog struct {
	cache    *gocache.Cache
	defaults map[string]domain.ScoringProfile
}

func NewProfileCatalog(ttl time.Duration) *ProfileCatalog {
	return &ProfileCatalog{
		cache:    gocache.New(ttl, 2*ttl),
		defaults: DefaultProfiles(),
	}
}

// Get returns a deep copy of the named profile, or false when no such
// profile exists. Callers own the returned copy.
func (c *ProfileCatalog) Get(name string) (domain.ScoringProfile, bool) {
	if cached, ok := c.cache.Get(profileCachePrefix + name); ok {
		if p, ok := cached.(domain.ScoringProfile); ok {
			return p.Clone(), true
		}
	}
	p, ok := c.defaults[name]
	if !ok {
		return domain.ScoringProfile{}, false
	}
	c.cache.SetDefault(profileCachePrefix+name, p)
	return p.Clone(), true
}

// Put registers or replaces a profile at runtime.
func (c *ProfileCatalog) Put(p domain.ScoringProfile) {
	c.defaults[p.Name] = p
	c.cache.SetDefault(profileCachePrefix+p.Name, p)
}

// Invalidate drops the cached copy of one profile.
func (c *ProfileCatalog) Invalidate(name string) {
	c.cache.Delete(profileCachePrefix + name)
}
