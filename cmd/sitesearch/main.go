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
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/opencivic/sitesearch/internal/config"
	logpkg "github.com/opencivic/sitesearch/internal/logger"
	"github.com/opencivic/sitesearch/internal/metrics"
	"github.com/opencivic/sitesearch/internal/repository/embcache"
	indexrepo "github.com/opencivic/sitesearch/internal/repository/index"
	"github.com/opencivic/sitesearch/internal/repository/ratelimit"
	chiTransport "github.com/opencivic/sitesearch/internal/transport/chi"
	openaiEmb "github.com/opencivic/sitesearch/internal/transport/openai"
	embeddinguc "github.com/opencivic/sitesearch/internal/usecase/embedding"
	healthuc "github.com/opencivic/sitesearch/internal/usecase/health"
	searchuc "github.com/opencivic/sitesearch/internal/usecase/search"
	"github.com/opencivic/sitesearch/internal/version"
)

func main() {
	// Local development convenience; the file is absent in prod.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sitesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	// Connect to the content store. Query logging goes through zap,
	// not gorm's own logger.
	db, err := gorm.Open(postgres.Open(cfg.Store.DSN), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		logger.Fatal("Failed to connect to content store", zap.Error(err))
	}
	indexRepo := indexrepo.New(db)

	ctx := context.Background()
	if err := indexRepo.Ping(ctx); err != nil {
		logger.Fatal("Content store not ready", zap.Error(err))
	}
	logger.Info("Connected to content store")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Embedding provider is optional: without an API key the engine
	// runs on keyword+fuzzy ranking alone.
	// Pass nil interface (not typed nil pointer!) when unconfigured.
	var provider embeddinguc.Provider
	var embChecker healthuc.EmbeddingChecker
	if cfg.Embedding.APIKey != "" {
		emb := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Logger:  logger,
		})
		provider = emb
		embChecker = emb
		logger.Info("Embedding provider configured",
			zap.String("model", cfg.Embedding.Model),
			zap.String("base_url", cfg.Embedding.BaseURL),
		)
	} else {
		logger.Warn("No embedding API key, semantic ranking disabled")
	}

	cache := embcache.New(cfg.Embedding.CacheMaxEntries, time.Duration(cfg.Embedding.CacheTTLSec)*time.Second)
	resolver := embeddinguc.New(cache, provider, time.Duration(cfg.Embedding.TimeoutMs)*time.Millisecond, logger)

	searchSvc := searchuc.New(indexRepo, resolver, cfg.Weights())
	healthSvc := healthuc.New(indexRepo, embChecker)

	limiter := ratelimit.New(cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowSec)*time.Second)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Get("/health", server.HandleHealth)
	r.Get("/metrics", server.HandleMetrics)
	r.Group(func(r chi.Router) {
		r.Use(chiTransport.RateLimitMiddleware(limiter))
		r.Get("/api/search", server.HandleSearch)
	})

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
						"code":    "INTERNAL_ERROR",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
