package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/internquest/internquest-api/internal/core/domain"
	"github.com/internquest/internquest-api/internal/core/ports"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions as JSON values that expire with the session.
// Key format: session:<sha256(id)>, so a dump of redis does not hand out
// usable session ids.
type SessionStore struct {
	client redis.Cmdable
	now    func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Create writes the session with a TTL equal to its remaining lifetime.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired at %s", session.ExpiresAt.Format(time.RFC3339))
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), string(raw), ttl).Err(); err != nil {
		return domain.StoreUnavailable("create session", err)
	}
	return nil
}

// Get returns nil when the session is unknown or redis already expired it.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, domain.StoreUnavailable("get session", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.ID = id
	return &session, nil
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return domain.StoreUnavailable("delete session", err)
	}
	return nil
}

func sessionKey(id string) string {
	sum := sha256.Sum256([]byte(id))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}
