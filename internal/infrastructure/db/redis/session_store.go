package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

const fallbackSessionTTL = time.Hour

// SessionStore keeps one live session per device in Redis.
// Key format: session:device:<device_id>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Save stores s under its device key, expiring with the session.
func (st *SessionStore) Save(ctx context.Context, s *domain.Session) error {
	if s == nil || s.DeviceID == "" {
		return domain.ErrInvalidDevice
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := fallbackSessionTTL
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(st.now())
		if ttl <= 0 {
			return domain.ErrSessionNotFound
		}
	}

	if err := st.client.Set(ctx, st.key(s.DeviceID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// FindByDevice loads the live session of deviceID.
func (st *SessionStore) FindByDevice(ctx context.Context, deviceID string) (*domain.Session, error) {
	raw, err := st.client.Get(ctx, st.key(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Delete removes the session of deviceID if there is one.
func (st *SessionStore) Delete(ctx context.Context, deviceID string) error {
	if err := st.client.Del(ctx, st.key(deviceID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (st *SessionStore) key(deviceID string) string {
	return "session:device:" + deviceID
}
