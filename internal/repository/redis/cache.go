package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

const (
	sessionCachePrefix = "session:"
	sessionCacheTTL    = 10 * time.Minute
)

// SessionCache is a read-through cache for session state. A miss or a
// deserialization problem is never an error for the caller; the store of
// record stays authoritative.
type SessionCache struct {
	client *Client
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *Client) *SessionCache {
	return &SessionCache{client: client}
}

// Get retrieves a cached session, returning nil on a miss
func (c *SessionCache) Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, sessionID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Set caches a session
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, session.ID.String())

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, sessionCacheTTL).Err()
}

// Invalidate removes a cached session
func (c *SessionCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", sessionCachePrefix, sessionID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
