package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"esg_dashboard/internal/app/di"
	"esg_dashboard/internal/app/router"
	"esg_dashboard/internal/feature/esg/transport/handler"
	"esg_dashboard/internal/feature/esg/usecase"
	"esg_dashboard/internal/platform/config"
	"esg_dashboard/internal/platform/db"
	"esg_dashboard/internal/platform/logging"
)

const (
	startupTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run はデータセットを読み込んでサーバーを起動し、ctxが終了するとグレースフルシャットダウンします。
// 終了処理はすべてdeferで行い、エラーは呼び出し元に返します。
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Repository
	var store usecase.RecordStore
	if cfg.DatasetSource == config.SourceDB {
		gdb, err := db.OpenDB(cfg.Database())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		// Redis（任意）
		rdb := di.OpenRedis(ctx, cfg)
		if rdb != nil {
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
		store = di.NewRecordStore(rdb, gdb, cfg)
	}
	datasets := usecase.NewDatasetProvider(di.NewDatasetRepository(cfg, store))

	// データセットは起動時に1回だけ読み込む
	loadCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	ds, err := datasets.Load(loadCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	slog.Info("dataset ready", "records", ds.Len(), "source", cfg.DatasetSource)

	// Usecase / Handler
	dashboardUC := usecase.NewDashboardUsecase(datasets)
	dashboardH := handler.NewDashboardHandler(dashboardUC)
	adminH := handler.NewAdminHandler(datasets)

	// JWT_SECRETチェック（未設定の場合、管理APIは500を返す）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Admin endpoints are disabled.")
	}

	r := router.NewRouter(router.Config{
		JWTSecret: cfg.JWTSecret,
		Ready:     datasets.Loaded,
		Logger:    logger,
	}, dashboardH, adminH)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
