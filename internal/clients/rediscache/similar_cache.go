package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

// Neighbor is a cached co-occurrence lookup result.
type Neighbor struct {
	Key     string  `json:"key"`
	Jaccard float64 `json:"jaccard"`
	Overlap int     `json:"overlap"`
	Source  string  `json:"source"`
}

// SimilarCache is a read-through cache in front of neighbor lookups so the
// ranker's hot keys don't hit Postgres on every request.
type SimilarCache interface {
	Get(ctx context.Context, itemKey string, limit int) ([]Neighbor, bool)
	Set(ctx context.Context, itemKey string, limit int, neighbors []Neighbor)
	Invalidate(ctx context.Context, itemKey string) error
	Close() error
}

type similarCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewSimilarCache returns (nil, nil) when REDIS_ADDR is unset; callers fall
// back to uncached lookups.
func NewSimilarCache(log *logger.Logger) (SimilarCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttl := 15 * time.Minute
	if v := strings.TrimSpace(os.Getenv("REDIS_SIMILAR_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &similarCache{
		log: log.With("client", "SimilarCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(itemKey string, limit int) string {
	return fmt.Sprintf("similar:%s:%d", itemKey, limit)
}

func (c *similarCache) Get(ctx context.Context, itemKey string, limit int) ([]Neighbor, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(itemKey, limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []Neighbor
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("Corrupt cached neighbor list, dropping", "item_key", itemKey, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(itemKey, limit)).Err()
		return nil, false
	}
	return out, true
}

func (c *similarCache) Set(ctx context.Context, itemKey string, limit int, neighbors []Neighbor) {
	raw, err := json.Marshal(neighbors)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(itemKey, limit), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache neighbor list", "item_key", itemKey, "error", err)
	}
}

func (c *similarCache) Invalidate(ctx context.Context, itemKey string) error {
	iter := c.rdb.Scan(ctx, 0, "similar:"+itemKey+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *similarCache) Close() error {
	return c.rdb.Close()
}
