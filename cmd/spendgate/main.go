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

	"github.com/kailas-cloud/spendgate/internal/config"
	"github.com/kailas-cloud/spendgate/internal/db"
	dbRedis "github.com/kailas-cloud/spendgate/internal/db/redis"
	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	logpkg "github.com/kailas-cloud/spendgate/internal/logger"
	"github.com/kailas-cloud/spendgate/internal/metrics"
	quoterepo "github.com/kailas-cloud/spendgate/internal/repository/quote"
	userrepo "github.com/kailas-cloud/spendgate/internal/repository/user"
	"github.com/kailas-cloud/spendgate/internal/tokenizer"
	"github.com/kailas-cloud/spendgate/internal/transport/httpapi"
	"github.com/kailas-cloud/spendgate/internal/transport/openaichat"
	confirmuc "github.com/kailas-cloud/spendgate/internal/usecase/confirm"
	healthuc "github.com/kailas-cloud/spendgate/internal/usecase/health"
	quoteuc "github.com/kailas-cloud/spendgate/internal/usecase/quote"
	useruc "github.com/kailas-cloud/spendgate/internal/usecase/user"
	"github.com/kailas-cloud/spendgate/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting spendgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Int("priced_models", len(cfg.Pricing)),
	)

	// Both supported drivers speak RESP; one rueidis store serves redis and valkey.
	var store db.Store
	store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
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

	// Register quote/confirm metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	// Immutable price table — single source of truth for estimation and billing.
	priceEntries := make(map[string]pricing.Price, len(cfg.Pricing))
	for key, p := range cfg.Pricing {
		priceEntries[key] = pricing.Price{InPer1K: p.InputPer1K, OutPer1K: p.OutputPer1K}
	}
	priceTable := pricing.NewTable(priceEntries)

	estimator, err := buildEstimator(cfg.Quote.Estimator)
	if err != nil {
		logger.Fatal("Failed to create token estimator", zap.Error(err))
	}
	logger.Info("Token estimator created", zap.String("kind", cfg.Quote.Estimator))

	// Upstream chat client — one connection per configured provider.
	providers := make(map[string]openaichat.ProviderConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		providers[name] = openaichat.ProviderConfig{APIKey: pc.APIKey, BaseURL: pc.BaseURL}
	}
	upstream := openaichat.New(providers, logger)

	// Create repositories
	quoteRepo := quoterepo.New(store, cfg.Database.KeyPrefix)
	userRepo := userrepo.New(store, cfg.Database.KeyPrefix)

	// Create use case services
	quoteSvc := quoteuc.New(quoteRepo, priceTable, estimator, quoteuc.Config{
		TTL:                         time.Duration(cfg.Quote.TTLSeconds) * time.Second,
		MaxCostUSD:                  cfg.Quote.MaxCostUSD,
		DefaultMaxOutputTokens:      cfg.Quote.DefaultMaxOutputTokens,
		DefaultExpectedOutputTokens: cfg.Quote.DefaultExpectedOutTokens,
	})
	confirmSvc := confirmuc.New(quoteRepo, priceTable, upstream, confirmuc.Config{
		SingleUse: cfg.Quote.SingleUse,
	})
	userSvc := useruc.New(userRepo)

	// Health service — skip the upstream check when no provider is configured.
	var upstreamChecker healthuc.UpstreamChecker
	if len(providers) > 0 {
		upstreamChecker = upstream
	}
	healthSvc := healthuc.New(store, upstreamChecker)

	server := httpapi.NewServer(quoteSvc, confirmSvc, userSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// buildEstimator selects the configured token estimator.
func buildEstimator(kind string) (quoteuc.Estimator, error) {
	switch kind {
	case "tiktoken":
		return tokenizer.NewTiktoken()
	default:
		return tokenizer.NewHeuristic(), nil
	}
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
						"error": "internal error",
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
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

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
