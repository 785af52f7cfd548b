package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	// CacheBackend selects the result cache: "memory", "redis" or "none".
	CacheBackend string
	RedisURL     string
	CacheTTL     time.Duration

	// Neural provider selection: "http", "openai" or "" (disabled).
	NeuralProvider      string
	NeuralEndpoint      string
	OpenAIAPIKey        string
	OpenAIModel         string
	NeuralTimeout       time.Duration
	NeuralMaxConcurrent int
	NeuralRateLimit     float64

	EnsembleNeuralWeight  float64
	EnsembleVaderWeight   float64
	EnsembleLexiconWeight float64

	CrisisVelocityWindow time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CacheBackend:   getEnv("CACHE_BACKEND", "memory"),
		RedisURL:       getEnv("REDIS_URL", ""),
		NeuralProvider: getEnv("NEURAL_PROVIDER", ""),
		NeuralEndpoint: getEnv("NEURAL_ENDPOINT", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", ""),
	}

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.NeuralTimeout, err = getDuration("NEURAL_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.NeuralMaxConcurrent, err = getInt("NEURAL_MAX_CONCURRENT", 4); err != nil {
		return nil, err
	}
	if cfg.NeuralRateLimit, err = getFloat("NEURAL_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.EnsembleNeuralWeight, err = getFloat("ENSEMBLE_NEURAL_WEIGHT", 0.6); err != nil {
		return nil, err
	}
	if cfg.EnsembleVaderWeight, err = getFloat("ENSEMBLE_VADER_WEIGHT", 0.25); err != nil {
		return nil, err
	}
	if cfg.EnsembleLexiconWeight, err = getFloat("ENSEMBLE_LEXICON_WEIGHT", 0.15); err != nil {
		return nil, err
	}
	if cfg.CrisisVelocityWindow, err = getDuration("CRISIS_VELOCITY_WINDOW", 6*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.CacheBackend {
	case "memory", "redis", "none":
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be memory, redis or none, got %q", cfg.CacheBackend)
	}
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when CACHE_BACKEND is redis")
	}

	switch cfg.NeuralProvider {
	case "", "http", "openai":
	default:
		return nil, fmt.Errorf("NEURAL_PROVIDER must be http, openai or unset, got %q", cfg.NeuralProvider)
	}
	if cfg.NeuralProvider == "http" && cfg.NeuralEndpoint == "" {
		return nil, fmt.Errorf("NEURAL_ENDPOINT is required when NEURAL_PROVIDER is http")
	}
	if cfg.NeuralProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required when NEURAL_PROVIDER is openai")
	}

	if cfg.CrisisVelocityWindow <= 0 {
		return nil, fmt.Errorf("CRISIS_VELOCITY_WINDOW must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s or 15m: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
