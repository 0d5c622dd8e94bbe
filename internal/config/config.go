package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	AIProvider         string
	OpenAIAPIKey       string
	FriendliAPIKey     string
	GeminiAPIKey       string
	ProviderTimeout    time.Duration
	RunCacheTTL        time.Duration
	AnalysisRateLimit  int
	AnalysisRateWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INTERVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AI Interview Analyzer API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8012")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("provider.timeout", "90s")
	v.SetDefault("run.cache_ttl", "10m")
	v.SetDefault("analysis.rate_limit", 10)
	v.SetDefault("analysis.rate_window", "1m")

	providerTimeout, err := time.ParseDuration(v.GetString("provider.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid provider timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("run.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid run cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("analysis.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid analysis rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		AIProvider:         strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		FriendliAPIKey:     v.GetString("friendli_api_key"),
		GeminiAPIKey:       v.GetString("gemini_api_key"),
		ProviderTimeout:    providerTimeout,
		RunCacheTTL:        cacheTTL,
		AnalysisRateLimit:  v.GetInt("analysis.rate_limit"),
		AnalysisRateWindow: rateWindow,
	}

	if cfg.OpenAIAPIKey == "" && cfg.FriendliAPIKey == "" && cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("at least one ai provider api key must be provided")
	}

	if cfg.AnalysisRateLimit <= 0 {
		cfg.AnalysisRateLimit = 10
	}

	return cfg, nil
}
