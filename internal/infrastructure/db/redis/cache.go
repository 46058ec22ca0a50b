package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
)

// cacheTTL matches the dashboard's background refresh interval: a stale
// entry is at most this old even if no write invalidates it first.
const cacheTTL = 5 * time.Minute

// CaseListCache caches the default first page of a principal scope's case
// list in Redis. Keys: "cases:all" (admin scope) and "cases:user:<id>".
// Writes to a case set invalidate both the owner's key and the admin key.
type CaseListCache struct {
	client *redis.Client
}

// NewCaseListCache creates a CaseListCache wrapping the given Redis client.
func NewCaseListCache(client *redis.Client) *CaseListCache {
	return &CaseListCache{client: client}
}

type cachedPage struct {
	Cases []*domain.Case `json:"cases"`
	Total int64          `json:"total"`
}

// Get returns the cached page for key. ok is false on a miss.
func (c *CaseListCache) Get(ctx context.Context, key string) ([]*domain.Case, int64, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("cache get: %w", err)
	}

	var page cachedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		// A corrupt entry is treated as a miss; the next Set replaces it.
		return nil, 0, false, nil
	}
	return page.Cases, page.Total, true, nil
}

// Set stores the page under key for cacheTTL.
func (c *CaseListCache) Set(ctx context.Context, key string, cases []*domain.Case, total int64) error {
	raw, err := json.Marshal(cachedPage{Cases: cases, Total: total})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the given keys.
func (c *CaseListCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
