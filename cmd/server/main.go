package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/snapgram/backend/internal/api"
	"github.com/anonto42/snapgram/backend/internal/auth"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/anonto42/snapgram/backend/internal/router"
	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/anonto42/snapgram/backend/pkg/firebase"
	"github.com/anonto42/snapgram/backend/pkg/logger"
	"github.com/anonto42/snapgram/backend/pkg/storage"
	"github.com/anonto42/snapgram/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const sessionPruneInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	if err := repositories.NewMongoPostRepository(mongoDB).EnsureIndexes(ctx); err != nil {
		zl.Fatal("Failed to create post indexes", zap.Error(err))
	}

	files, err := storage.NewS3FileStorage(&cfg.Storage, storage.WithLogger(zl.Named("storage")))
	if err != nil {
		zl.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	if err := files.EnsureBucket(ctx); err != nil {
		zl.Fatal("Failed to prepare storage bucket", zap.Error(err))
	}

	// Firebase login is optional
	var verifier api.TokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, zl)
	switch {
	case errors.Is(err, firebase.ErrNotConfigured):
		zl.Info("Firebase not configured, federated login disabled.")
	case err != nil:
		zl.Fatal("Failed to initialize Firebase", zap.Error(err))
	default:
		verifier = firebaseApp.AuthClient
	}

	queries := query.NewClient(newQueryCache(ctx, cfg, zl), cfg.QueryCacheTTL, zl.Named("query"))

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, cfg, zl)

	// Setup routes and dependencies
	authService, err := router.SetupRoutes(e, router.Dependencies{
		Config:   cfg,
		Postgres: db.Postgres,
		Mongo:    mongoDB,
		Files:    files,
		Verifier: verifier,
		Queries:  queries,
		Logger:   zl,
	})
	if err != nil {
		zl.Fatal("Failed to configure routes", zap.Error(err))
	}
	go pruneSessions(ctx, authService, zl)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// newQueryCache uses Redis when configured and reachable, else process memory.
func newQueryCache(ctx context.Context, cfg *config.Config, zl *zap.Logger) query.Cache {
	if cfg.RedisAddr == "" {
		zl.Info("Redis not configured, using in-memory query cache.")
		return query.NewMemoryCache()
	}
	client, err := query.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		zl.Warn("Redis unavailable, using in-memory query cache", zap.Error(err))
		return query.NewMemoryCache()
	}
	zl.Info("Redis query cache configured.", zap.String("addr", cfg.RedisAddr))
	return query.NewRedisCache(client)
}

func pruneSessions(ctx context.Context, svc *auth.Service, zl *zap.Logger) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneExpiredSessions(ctx)
			if err != nil {
				zl.Warn("Failed to prune expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				zl.Info("Pruned expired sessions", zap.Int64("count", n))
			}
		}
	}
}
