package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tetsu-is/danceverse/internal/auth"
	"github.com/Tetsu-is/danceverse/internal/config"
	"github.com/Tetsu-is/danceverse/internal/handler"
	"github.com/Tetsu-is/danceverse/internal/logger"
	"github.com/Tetsu-is/danceverse/internal/metrics"
	"github.com/Tetsu-is/danceverse/internal/repository"
	"github.com/Tetsu-is/danceverse/internal/storage"
	"github.com/Tetsu-is/danceverse/internal/upload"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ============================================
// Main
// ============================================

func main() {
	verbose := os.Getenv("VERBOSE") != ""
	log, err := logger.New(verbose)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	log.Info("configuration loaded", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB接続
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		return err
	}

	// オブジェクトストレージ
	objects, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Buckets:   []string{upload.Bucket},
	})
	if err != nil {
		return err
	}
	if err := objects.EnsureBuckets(ctx); err != nil {
		return err
	}

	h := handler.New(handler.Options{
		Users:       repository.NewUserRepository(pool),
		Videos:      repository.NewVideoRepository(pool),
		Leaderboard: repository.NewLeaderboardRepository(pool),
		Objects:     objects,
		Issuer:      auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:     metrics.New(),
		Log:         log,
		AnonKey:     cfg.AnonKey,
		CORSOrigins: cfg.CORSOrigins,
		Buckets:     []string{upload.Bucket},
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
