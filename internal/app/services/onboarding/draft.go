package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// draftTTL bounds how long an abandoned draft survives.
const draftTTL = 24 * time.Hour

// RedisDraftCache stores drafts in redis with a TTL.
type RedisDraftCache struct {
	client *redis.Client
}

var _ DraftCache = (*RedisDraftCache)(nil)

// NewRedisDraftCache wraps an existing redis client.
func NewRedisDraftCache(client *redis.Client) *RedisDraftCache {
	return &RedisDraftCache{client: client}
}

func draftKey(userID string) string {
	return "onboarding:draft:" + userID
}

func (c *RedisDraftCache) SaveDraft(ctx context.Context, userID string, payload []byte) error {
	return c.client.Set(ctx, draftKey(userID), payload, draftTTL).Err()
}

func (c *RedisDraftCache) LoadDraft(ctx context.Context, userID string) ([]byte, error) {
	raw, err := c.client.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

func (c *RedisDraftCache) ClearDraft(ctx context.Context, userID string) error {
	return c.client.Del(ctx, draftKey(userID)).Err()
}

// MemoryDraftCache is the fallback used when redis is not configured.
type MemoryDraftCache struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

var _ DraftCache = (*MemoryDraftCache)(nil)

// NewMemoryDraftCache creates an empty in-process cache.
func NewMemoryDraftCache() *MemoryDraftCache {
	return &MemoryDraftCache{drafts: make(map[string][]byte)}
}

func (c *MemoryDraftCache) SaveDraft(_ context.Context, userID string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[userID] = append([]byte(nil), payload...)
	return nil
}

func (c *MemoryDraftCache) LoadDraft(_ context.Context, userID string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.drafts[userID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

func (c *MemoryDraftCache) ClearDraft(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, userID)
	return nil
}
