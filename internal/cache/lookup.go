package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pokelogger/pokelogger/internal/pokeapi"
)

// lookupCachePrefix is the Redis key prefix for upstream lookup results.
const lookupCachePrefix = "pokeapi:lookup:"

// GetLookup retrieves a cached upstream lookup result by query.
// Returns nil on a cache miss.
func (c *Cache) GetLookup(ctx context.Context, query string) (*pokeapi.Pokemon, error) {
	key := lookupCacheKey(query)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached pokeapi.Pokemon
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &cached, nil
}

// SetLookup caches an upstream lookup result. Entries are snapshotted into
// collections at insert time, so brief staleness here is harmless.
func (c *Cache) SetLookup(ctx context.Context, query string, p *pokeapi.Pokemon, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal lookup result: %w", err)
	}

	return c.client.Set(ctx, lookupCacheKey(query), data, ttl).Err()
}

// lookupCacheKey normalizes the query the same way the upstream client does.
func lookupCacheKey(query string) string {
	return lookupCachePrefix + strings.ToLower(strings.TrimSpace(query))
}
