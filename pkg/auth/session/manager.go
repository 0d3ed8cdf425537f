package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Store is the subset of the redis client the registry needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Keyer maps session ids to namespaced storage keys.
type Keyer interface {
	SessionKey(sessionID string) string
}

// AccessSessionChecker verifies a token session is still live.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// Manager tracks live token sessions so logout can revoke a JWT
// before its expiry.
type Manager struct {
	store Store
	keyer Keyer
	ttl   time.Duration
}

func NewManager(store Store, keyer Keyer, ttl time.Duration) *Manager {
	return &Manager{store: store, keyer: keyer, ttl: ttl}
}

// NewSessionID mints the identifier embedded as the token jti.
func NewSessionID() string {
	return uuid.NewString()
}

// Register records a freshly minted session. The entry expires with the token.
func (m *Manager) Register(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sessionID), "1", m.ttl)
}

// HasSession reports whether the session is still live.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke drops the session, invalidating the token it backs.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}
