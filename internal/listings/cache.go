package listings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/models"
)

const cacheKeyPrefix = "listing:snapshot:"

// CacheKey is the Redis key holding a listing snapshot.
func CacheKey(id string) string {
	return cacheKeyPrefix + id
}

// CachedSource is a read-through Redis cache in front of another Source.
// Redis failures are logged and the wrapped source is used instead.
type CachedSource struct {
	next   Source
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"source": "cache"}),
	}
}

func (c *CachedSource) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	val, err := c.redis.Get(ctx, CacheKey(id)).Bytes()
	switch {
	case err == nil:
		if listing, ok := c.decode(id, val); ok {
			metrics.ListingCacheRequests.WithLabelValues("hit").Inc()
			return listing, nil
		}
	case errors.Is(err, redis.Nil):
		metrics.ListingCacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.ListingCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"listingId": id, "error": err})
	}

	listing, err := c.next.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, []models.Listing{*listing})
	return listing, nil
}

func (c *CachedSource) GetListings(ctx context.Context, ids []string) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	if err := validateIDs(ids); err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = CacheKey(id)
	}

	found := make(map[string]models.Listing, len(ids))
	values, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.ListingCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"count": len(ids), "error": err})
	} else {
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if listing, ok := c.decode(ids[i], []byte(s)); ok {
				found[ids[i]] = *listing
			}
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	metrics.ListingCacheRequests.WithLabelValues("hit").Add(float64(len(ids) - len(missing)))
	metrics.ListingCacheRequests.WithLabelValues("miss").Add(float64(len(missing)))

	if len(missing) > 0 {
		fetched, err := c.next.GetListings(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, listing := range fetched {
			found[listing.ID] = listing
		}
		c.store(ctx, fetched)
	}

	return orderByIDs(ids, found)
}

func (c *CachedSource) decode(id string, val []byte) (*models.Listing, bool) {
	var listing models.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"listingId": id, "error": err})
		return nil, false
	}
	return &listing, true
}

func (c *CachedSource) store(ctx context.Context, listings []models.Listing) {
	if len(listings) == 0 {
		return
	}
	pipe := c.redis.Pipeline()
	for _, listing := range listings {
		data, err := json.Marshal(listing)
		if err != nil {
			continue
		}
		pipe.Set(ctx, CacheKey(listing.ID), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"count": len(listings), "error": err})
	}
}
