package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketSearch/domain"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps session state in Redis under a sliding TTL. The
// whole state is one JSON value; concurrent appends to the same session are
// last write wins, which is acceptable for a single-browser session.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// GetSession returns (nil, nil) when the session does not exist or has
// expired.
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}

	return &state, nil
}

func (r *SessionRepository) SaveSession(ctx context.Context, state *domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", state.SessionID, err)
	}

	if err := r.client.Set(ctx, sessionKey(state.SessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", state.SessionID, err)
	}

	return nil
}

// AppendInteraction loads the session, appends, and writes it back with a
// refreshed TTL. A missing session is created on first append.
func (r *SessionRepository) AppendInteraction(ctx context.Context, sessionID string, interaction domain.SessionInteraction) error {
	state, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	now := interaction.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	if state == nil {
		state = domain.NewSessionState(sessionID, now)
	}

	state.Interactions = append(state.Interactions, interaction)
	state.LastActivityTime = now

	return r.SaveSession(ctx, state)
}

func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
