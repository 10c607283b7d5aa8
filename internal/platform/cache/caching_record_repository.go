// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"esg_dashboard/internal/feature/esg/domain/entity"
	"esg_dashboard/internal/feature/esg/usecase"
)

// CachingRecordRepository decorates a RecordStore with Redis caching.
// Every server process shares the cached dataset, so only the first process
// after an ingest or a TTL expiry reads the full table.
type CachingRecordRepository struct {
	inner     usecase.RecordStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.RecordStore = (*CachingRecordRepository)(nil)

// NewCachingRecordRepository decorates a RecordStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "esg".
func NewCachingRecordRepository(rdb *redis.Client, ttl time.Duration, inner usecase.RecordStore, namespace string) *CachingRecordRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "esg"
	}
	return &CachingRecordRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates records and invalidates the cached dataset.
func (c *CachingRecordRepository) UpsertBatch(ctx context.Context, records []entity.Record) error {
	if err := c.inner.UpsertBatch(ctx, records); err != nil {
		return err
	}
	if c.rdb == nil || len(records) == 0 {
		return nil
	}

	// Best effort: a stale entry expires with its TTL
	if err := c.deleteByPattern(ctx, c.keyPrefix()+"*"); err != nil {
		slog.Warn("failed to invalidate record cache", "namespace", c.namespace, "error", err)
	}
	return nil
}

// DeleteExcept removes rows missing from keep and invalidates the cached dataset when any row was removed.
func (c *CachingRecordRepository) DeleteExcept(ctx context.Context, keep []entity.Record) (int64, error) {
	n, err := c.inner.DeleteExcept(ctx, keep)
	if err != nil {
		return 0, err
	}
	if c.rdb == nil || n == 0 {
		return n, nil
	}

	if err := c.deleteByPattern(ctx, c.keyPrefix()+"*"); err != nil {
		slog.Warn("failed to invalidate record cache", "namespace", c.namespace, "error", err)
	}
	return n, nil
}

// FindAll retrieves the full dataset, checking cache first then falling back to the database.
func (c *CachingRecordRepository) FindAll(ctx context.Context) ([]entity.Record, error) {
	if c.rdb == nil {
		return c.inner.FindAll(ctx)
	}

	key := c.allKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Record
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingRecordRepository) keyPrefix() string {
	return c.namespace + ":records:"
}

func (c *CachingRecordRepository) allKey() string {
	return c.keyPrefix() + "all"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRecordRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
