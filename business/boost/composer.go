package boost

import (
	"context"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"
)

// ---- Collaborator interfaces ----

type PreferenceReader interface {
	GetUserPreferences(ctx context.Context, userID uint) *domain.PreferenceProfile
}

type SessionWeigher interface {
	ComputeWeights(ctx context.Context, sessionID string) domain.SessionWeights
}

type VariantAssigner interface {
	Assign(ctx context.Context, experimentID string, userID uint, clientID string) domain.VariantAssignment
}

// Config bounds the per-request personalization signal.
type Config struct {
	SimilarityThreshold  float64
	MaxSimilarCategories int
	// SessionTopN caps how many session-derived keys per dimension become
	// predicates.
	SessionTopN int
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:  0.3,
		MaxSimilarCategories: 3,
		SessionTopN:          3,
	}
}

// ComposeRequest carries everything the composer may draw on. Zero values
// switch the corresponding signal off: UserID 0 skips preferences,
// SessionID "" skips session weights, ExperimentID "" skips assignment,
// nil Intent skips intent predicates.
type ComposeRequest struct {
	Base         domain.SearchQuery
	UserID       uint
	SessionID    string
	ClientID     string
	ExperimentID string
	Intent       *domain.QueryIntent
	// Profile overrides experiment-driven profile selection when set.
	Profile string
}

// Composer assembles a BoostedQuery from a static scoring profile and the
// per-request personalization signals. It never mutates the base query and
// degrades to the unpersonalized profile when any signal source fails.
type Composer struct {
	profiles    *ProfileCatalog
	preferences PreferenceReader
	sessions    SessionWeigher
	experiments VariantAssigner
	cfg         Config
}

func NewComposer(profiles *ProfileCatalog, preferences PreferenceReader, sessions SessionWeigher, experiments VariantAssigner, cfg Config) *Composer {
	return &Composer{
		profiles:    profiles,
		preferences: preferences,
		sessions:    sessions,
		experiments: experiments,
		cfg:         cfg,
	}
}

// Compose builds the boosted query. The profile is chosen in priority
// order: explicit request override, experiment variant algorithm, standard.
// An unknown profile name falls back to standard rather than failing the
// search.
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) domain.BoostedQuery {
	profileName := c.resolveProfile(ctx, req)

	profile, ok := c.profiles.Get(profileName)
	if !ok {
		logger.Warn("unknown scoring profile, using standard", "profile", profileName)
		profileName = ProfileStandard
		profile, _ = c.profiles.Get(ProfileStandard)
	}

	metrics.SearchRequestsTotal.WithLabelValues(profileName).Inc()

	out := domain.BoostedQuery{
		Base:             req.Base.Clone(),
		Profile:          profileName,
		FieldBoosts:      profile.FieldBoosts,
		Functions:        profile.Functions,
		ScoreCombination: profile.ScoreCombination,
		BoostCombination: profile.BoostCombination,
	}

	if req.UserID != 0 && c.preferences != nil {
		prefs := c.preferences.GetUserPreferences(ctx, req.UserID)
		fns := preferencePredicates(prefs, c.cfg.SimilarityThreshold, c.cfg.MaxSimilarCategories)
		if len(fns) > 0 {
			out.Functions = append(out.Functions, fns...)
			metrics.BoostPredicatesAppended.WithLabelValues("preference").Add(float64(len(fns)))
		}
	}

	if req.SessionID != "" && c.sessions != nil {
		weights := c.sessions.ComputeWeights(ctx, req.SessionID)
		fns := c.sessionPredicates(weights)
		if len(fns) > 0 {
			out.Functions = append(out.Functions, fns...)
			metrics.BoostPredicatesAppended.WithLabelValues("session").Add(float64(len(fns)))
		}
	}

	if req.Intent != nil {
		fns := intentPredicates(req.Intent)
		if len(fns) > 0 {
			out.Functions = append(out.Functions, fns...)
			metrics.BoostPredicatesAppended.WithLabelValues("intent").Add(float64(len(fns)))
		}
	}

	return out
}

func (c *Composer) resolveProfile(ctx context.Context, req ComposeRequest) string {
	if req.Profile != "" {
		return req.Profile
	}
	if req.ExperimentID != "" && c.experiments != nil {
		assignment := c.experiments.Assign(ctx, req.ExperimentID, req.UserID, req.ClientID)
		if assignment.Algorithm != "" {
			return assignment.Algorithm
		}
	}
	return ProfileStandard
}

// sessionPredicates converts the strongest in-session signals into boost
// functions. Session weights are already in [0,1]; they carry a neutral
// function weight so a short session cannot overwhelm durable preferences.
func (c *Composer) sessionPredicates(w domain.SessionWeights) []domain.BoostFunction {
	var fns []domain.BoostFunction
	for _, pref := range topPreferences(w.Categories, c.cfg.SessionTopN) {
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{Field: "category", Value: pref.Key, Weight: pref.Weight},
			Weight:    1.0 + pref.Weight,
		})
	}
	for _, pref := range topPreferences(w.Brands, c.cfg.SessionTopN) {
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{Field: "brand", Value: pref.Key, Weight: pref.Weight},
			Weight:    1.0 + pref.Weight,
		})
	}
	for _, pref := range topPreferences(w.Entities, c.cfg.SessionTopN) {
		fns = append(fns, domain.BoostFunction{
			Predicate: &domain.BoostPredicate{Field: "id", Value: pref.Key, Weight: pref.Weight},
			Weight:    1.0 + pref.Weight,
		})
	}
	return fns
}
