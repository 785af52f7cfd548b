package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/parwely/brands-intelligence-platform/internal/analysis"
	"github.com/parwely/brands-intelligence-platform/internal/cache"
	"github.com/parwely/brands-intelligence-platform/internal/config"
	"github.com/parwely/brands-intelligence-platform/internal/domain"
	"github.com/parwely/brands-intelligence-platform/internal/logging"
	"github.com/parwely/brands-intelligence-platform/internal/neural"
	"github.com/parwely/brands-intelligence-platform/internal/server"
)

func setupConfig() *config.Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupCache returns the result cache and, for backends with an external
// dependency, a pinger for the readiness probe.
func setupCache(cfg *config.Config, clock clockwork.Clock) (domain.ResultCache, *cache.Redis) {
	switch cfg.CacheBackend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		return redisCache, redisCache
	case "memory":
		return cache.NewMemory(clock, 0), nil
	default:
		return nil, nil
	}
}

func setupNeuralProvider(cfg *config.Config) domain.NeuralProvider {
	switch cfg.NeuralProvider {
	case "http":
		return neural.NewHTTPProvider(cfg.NeuralEndpoint, nil)
	case "openai":
		return neural.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return nil
	}
}

func setupEngine(cfg *config.Config, resultCache domain.ResultCache, clock clockwork.Clock) *analysis.Engine {
	lex := analysis.NewLexicon()

	adapter := analysis.NewNeuralAdapter(setupNeuralProvider(cfg), analysis.NeuralOptions{
		Timeout:       cfg.NeuralTimeout,
		MaxConcurrent: cfg.NeuralMaxConcurrent,
		RateLimit:     rate.Limit(cfg.NeuralRateLimit),
	})

	weights := analysis.EnsembleWeights{
		Neural:  cfg.EnsembleNeuralWeight,
		Vader:   cfg.EnsembleVaderWeight,
		Lexicon: cfg.EnsembleLexiconWeight,
	}
	ensemble, err := analysis.NewEnsemble(analysis.NewLexiconScorer(lex), analysis.NewVaderScorer(), adapter, weights)
	if err != nil {
		slog.Error("Invalid ensemble configuration", "error", err)
		os.Exit(1)
	}

	crisis := analysis.NewCrisisDetectorWithWindow(lex, clock, cfg.CrisisVelocityWindow)

	engine := analysis.NewEngine(ensemble, crisis, analysis.NewHealthAggregator(), resultCache, clock)
	engine.SetCacheTTL(cfg.CacheTTL)
	return engine
}

func runGracefulShutdown(srv *server.Server, redisCache *cache.Redis) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if redisCache != nil {
			if err := redisCache.Close(); err != nil {
				slog.Error("Redis close error", "error", err)
			}
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	resultCache, redisCache := setupCache(cfg, clock)
	engine := setupEngine(cfg, resultCache, clock)

	status := engine.Status()
	slog.Info("Analysis engine ready",
		"neural_available", status.NeuralAvailable,
		"neural_provider", status.NeuralProvider,
		"cache_backend", cfg.CacheBackend,
		"model_version", status.ModelVersion,
	)

	// Pass nil explicitly to avoid typed-nil interface
	var srv *server.Server
	if redisCache != nil {
		srv = server.NewServer(cfg, engine, redisCache, clock)
	} else {
		srv = server.NewServer(cfg, engine, nil, clock)
	}

	done := runGracefulShutdown(srv, redisCache)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
