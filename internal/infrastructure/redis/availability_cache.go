package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache entry not found")

// AvailabilityCache caches the remaining seat count per offer so the
// catalog does not hit the database on every listing.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount reads the cached seat count of an offer.
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, offerID string) (int, error) {
	val, err := c.client.Get(ctx, c.availableCountKey(offerID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("reading cache: %w", err)
	}
	return val, nil
}

// SetAvailableCount stores the seat count of an offer.
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, offerID string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.availableCountKey(offerID), count, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached count after a capacity mutation.
func (c *AvailabilityCache) Invalidate(ctx context.Context, offerID string) error {
	if err := c.client.Del(ctx, c.availableCountKey(offerID)).Err(); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableCountKey(offerID string) string {
	return fmt.Sprintf("offers:available:%s", offerID)
}
