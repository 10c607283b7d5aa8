// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	esgadapters "esg_dashboard/internal/feature/esg/adapters"
	"esg_dashboard/internal/feature/esg/adapters/csvsource"
	"esg_dashboard/internal/feature/esg/adapters/huggingface"
	"esg_dashboard/internal/feature/esg/usecase"
	"esg_dashboard/internal/platform/cache"
	"esg_dashboard/internal/platform/config"
	infrahttp "esg_dashboard/internal/platform/http"
	infraredis "esg_dashboard/internal/platform/redis"
	"esg_dashboard/internal/shared/ratelimiter"
)

// UserAgent is sent with every request to the dataset source.
const UserAgent = "esg-dashboard-ingest/1.0"

// OpenRedis connects to Redis when configured.
// It returns nil when Redis is not configured or unreachable so that callers run without cache.
func OpenRedis(ctx context.Context, cfg *config.Config) *redisv9.Client {
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewRecordStore creates a RecordStore implementation.
// If Redis is available, the gorm repository is wrapped with the Redis cache
// whose entries expire at the next configured refresh hour.
func NewRecordStore(rdb *redisv9.Client, db *gorm.DB, cfg *config.Config) usecase.RecordStore {
	repo := esgadapters.NewRecordRepository(db)
	if rdb == nil {
		return repo
	}
	ttl := cache.TimeUntilNext(time.Now(), cfg.CacheRefreshHour, cfg.CacheLocation())
	return cache.NewCachingRecordRepository(rdb, ttl, repo, cfg.CacheNamespace)
}

// NewDatasetRepository returns the repository the dashboard loads its dataset from.
// With DATASET_SOURCE=csv the CSV file is read directly and store is not used.
func NewDatasetRepository(cfg *config.Config, store usecase.RecordRepository) usecase.RecordRepository {
	if cfg.DatasetSource == config.SourceCSV {
		return csvsource.NewSource(cfg.DatasetCSVPath)
	}
	return store
}

// NewIngestSource creates the source the ingest command copies rows from.
func NewIngestSource(cfg *config.Config) usecase.SourceRepository {
	if cfg.IngestSource == config.SourceCSV {
		return csvsource.NewSource(cfg.DatasetCSVPath)
	}
	hf := cfg.HuggingFace()
	httpClient := infrahttp.NewHTTPClient(hf.Timeout, UserAgent)
	limiter := ratelimiter.NewRateLimiter(cfg.HFRequestsPerMinute, time.Minute)
	return huggingface.NewDatasetSource(hf, httpClient, limiter)
}
