package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/config"
	"github.com/civicpulse/insight/internal/db"
	dbMemory "github.com/civicpulse/insight/internal/db/memory"
	dbRedis "github.com/civicpulse/insight/internal/db/redis"
	"github.com/civicpulse/insight/internal/domain"
	"github.com/civicpulse/insight/internal/embed"
	logpkg "github.com/civicpulse/insight/internal/logger"
	"github.com/civicpulse/insight/internal/metrics"
	"github.com/civicpulse/insight/internal/repository/resultcache"
	topicsrepo "github.com/civicpulse/insight/internal/repository/topics"
	openaiCompletion "github.com/civicpulse/insight/internal/transport/openai"
	"github.com/civicpulse/insight/internal/transport/rest"
	analyzeuc "github.com/civicpulse/insight/internal/usecase/analyze"
	healthuc "github.com/civicpulse/insight/internal/usecase/health"
	similarityuc "github.com/civicpulse/insight/internal/usecase/similarity"
	supportuc "github.com/civicpulse/insight/internal/usecase/support"
	"github.com/civicpulse/insight/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting insight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// All storage keys share the configured prefix.
	domain.KeyPrefix = cfg.Storage.KeyPrefix

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register completion/cache metrics explicitly (no init())
	metrics.RegisterInsightMetrics()

	// Completion provider — shared by the analyzer and decision support
	completer := openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:      cfg.Completion.APIKey,
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		Provider:    cfg.Completion.Provider,
		Logger:      logger,
	})
	logger.Info("Completion provider created",
		zap.String("provider", cfg.Completion.Provider),
		zap.String("model", cfg.Completion.Model),
	)

	// Embedder chain: Hasher -> Cached
	embedder := resultcache.NewEmbedder(
		embed.NewHasher(), store, metrics.EmbeddingCacheTotal, logger,
	)

	summaryCache := resultcache.NewTextCache(
		store, "summary_cache:", metrics.SummaryCacheTotal, logger,
	)

	// Use case services
	similarSvc := similarityuc.New(embedder, logger)
	analyzerSvc := analyzeuc.New(completer, summaryCache, metrics.CompletionFallbacksTotal, logger)
	supportSvc := supportuc.New(completer, similarSvc, metrics.CompletionFallbacksTotal, logger)
	healthSvc := healthuc.New(store, completer)

	repo := topicsrepo.New(store, logger)

	server := rest.NewServer(analyzerSvc, similarSvc, supportSvc, healthSvc, repo, logger).
		WithDefaults(cfg.Insight.SimilarLimit, cfg.Insight.DuplicateThreshold)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(rest.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
