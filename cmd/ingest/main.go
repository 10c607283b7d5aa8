package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"esg_dashboard/internal/app/di"
	esgadapters "esg_dashboard/internal/feature/esg/adapters"
	"esg_dashboard/internal/feature/esg/usecase"
	"esg_dashboard/internal/platform/config"
	"esg_dashboard/internal/platform/db"
	"esg_dashboard/internal/platform/logging"
)

const ingestTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if _, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	err = run(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

// run は元データセットをデータベースに取り込みます。
// Redisクライアントはdeferで閉じるため、失敗時もエラーを返してから終了します。
func run(ctx context.Context, cfg *config.Config) error {
	gdb, err := db.OpenDB(cfg.Database())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// 取り込み後にキャッシュを無効化するため、サーバーと同じストアを使う
	rdb := di.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	store := di.NewRecordStore(rdb, gdb, cfg)
	uc := usecase.NewIngestUsecase(di.NewIngestSource(cfg), store)

	res, err := uc.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("fetched %d, stored %d: %w", res.Fetched, res.Stored, err)
	}

	total, err := esgadapters.NewRecordRepository(gdb).Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	slog.Info("ingest ok",
		"source", cfg.IngestSource,
		"fetched", res.Fetched,
		"stored", res.Stored,
		"skipped", res.Skipped,
		"duplicates", res.Duplicates,
		"deleted", res.Deleted,
		"total", total,
	)
	return nil
}
