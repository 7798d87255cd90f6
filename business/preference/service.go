package preference

import (
	"context"
	"fmt"
	"time"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

// ---- Repository interfaces ----

type PreferenceRepository interface {
	// GetProfile returns (nil, nil) when no profile exists yet.
	GetProfile(ctx context.Context, userID uint) (*domain.PreferenceProfile, error)
	SaveProfile(ctx context.Context, profile *domain.PreferenceProfile) error
	Exists(ctx context.Context, userID uint) (bool, error)
	DeleteProfile(ctx context.Context, userID uint) error

	// ScrollProfiles reads stored profiles in stable order for the decay
	// sweep. Returns an empty slice past the end.
	ScrollProfiles(ctx context.Context, offset, limit int) ([]*domain.PreferenceProfile, error)
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event domain.InteractionEvent) error
}

type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error)
	AppendInteraction(ctx context.Context, sessionID string, interaction domain.SessionInteraction) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// ---- Service ----

// Service is the preference store plus the interaction recorder sitting in
// front of it.
type Service struct {
	repo     PreferenceRepository
	events   EventRepository
	sessions SessionRepository
	cache    *gocache.Cache
	cfg      Config
}

func NewService(
	repo PreferenceRepository,
	events EventRepository,
	sessions SessionRepository,
	cache *gocache.Cache,
	cfg Config,
) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		sessions: sessions,
		cache:    cache,
		cfg:      cfg,
	}
}

func profileCacheKey(userID uint) string {
	return fmt.Sprintf("pref:%d", userID)
}

// GetUserPreferences returns the profile for a user, lazily creating an
// all-empty one on first access. Persistence failures degrade to an empty
// profile so ranking-facing reads never fail the search request.
//
// Cached entries are never mutated after being stored. Every caller gets its
// own deep copy, so readers iterating the weight maps cannot race a
// concurrent RecordInteraction for the same user.
func (s *Service) GetUserPreferences(ctx context.Context, userID uint) *domain.PreferenceProfile {
	if s.cache != nil {
		if cached, ok := s.cache.Get(profileCacheKey(userID)); ok {
			if p, ok := cached.(*domain.PreferenceProfile); ok {
				return p.Clone()
			}
		}
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		logger.Error("failed to load preference profile, serving empty", "user_id", userID, "error", err)
		return domain.NewPreferenceProfile(userID)
	}
	if profile == nil {
		profile = domain.NewPreferenceProfile(userID)
	}

	if s.cache != nil {
		s.cache.SetDefault(profileCacheKey(userID), profile)
	}

	return profile.Clone()
}

// RecordInteraction ingests one event and reports success. It never
// propagates an error: tracking must not break the user action that
// triggered it. Concurrent writers for the same user may race
// last-write-wins; the loss of a single increment is accepted.
func (s *Service) RecordInteraction(ctx context.Context, event domain.InteractionEvent) bool {
	if event.Type == "" {
		logger.Warn("dropping interaction without event_type", "user_id", event.UserID, "session_id", event.SessionID)
		metrics.InteractionEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		return false
	}

	now := event.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	recorded := false

	if event.UserID != 0 {
		// Private copy. The cached entry is only replaced wholesale below,
		// after the mutated copy has been persisted.
		profile := s.GetUserPreferences(ctx, event.UserID)
		if s.applyEvent(profile, event, now) {
			profile.LastUpdated = now
			if err := s.repo.SaveProfile(ctx, profile); err != nil {
				logger.Error("failed to save preference profile", "user_id", event.UserID, "event_type", event.Type, "error", err)
			} else {
				recorded = true
				if s.cache != nil {
					s.cache.SetDefault(profileCacheKey(event.UserID), profile)
				}
			}
		}
	}

	if event.SessionID != "" && s.sessions != nil {
		interaction := domain.SessionInteraction{
			Type:      event.Type,
			Timestamp: now,
			Payload:   event.Payload,
		}
		if err := s.sessions.AppendInteraction(ctx, event.SessionID, interaction); err != nil {
			logger.Error("failed to append session interaction", "session_id", event.SessionID, "error", err)
		} else {
			recorded = true
		}
	}

	if s.events != nil {
		event.Timestamp = now
		if err := s.events.SaveEvent(ctx, event); err != nil {
			logger.Error("failed to persist interaction event", "user_id", event.UserID, "event_type", event.Type, "error", err)
		}
	}

	result := "ok"
	if !recorded {
		result = "skipped"
	}
	metrics.InteractionEventsTotal.WithLabelValues(string(event.Type), result).Inc()

	return recorded
}

// ClearUserPreferences hard-deletes a profile on an explicit user data-clear
// request. This is the only path that removes a profile.
func (s *Service) ClearUserPreferences(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete preference profile: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(profileCacheKey(userID))
	}
	return nil
}

// InvalidateCache drops the cached copy for one user, forcing the next read
// through to storage.
func (s *Service) InvalidateCache(userID uint) {
	if s.cache != nil {
		s.cache.Delete(profileCacheKey(userID))
	}
}
