// Package config loads process configuration from a .env file and
// environment variables, with viper providing defaults and overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete application configuration. It is assembled once
// at boot and passed down explicitly; nothing reads the environment after
// Load returns.
type Config struct {
	Server  ServerConfig
	Keys    APIKeys
	Plaid   PlaidConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	FallbackPorts []int // tried in order when the preferred port is taken
	Env           string
	CORSOrigins   []string
}

// Development reports whether verbose error details may be exposed.
func (s ServerConfig) Development() bool {
	return strings.EqualFold(s.Env, "development")
}

// APIKeys holds upstream credentials. Empty keys disable the upstream and
// the fallback chain skips past it.
type APIKeys struct {
	AlphaVantage string
	FRED         string
	News         string
	HuggingFace  string
}

// PlaidConfig is recorded for the banking mock; the mock never dials out.
type PlaidConfig struct {
	ClientID string
	Secret   string
	Env      string
}

// CacheConfig holds cache tuning.
type CacheConfig struct {
	DefaultTTL  time.Duration // CACHE_DURATION override, 0 = per-namespace defaults
	UseMockData bool          // force the mock branch for every endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is not an error; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PLAID_ENV", "sandbox")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	// NODE_ENV is honored for parity with deployments that still set it.
	_ = v.BindEnv("APP_ENV", "APP_ENV", "NODE_ENV")

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetInt("PORT"),
			FallbackPorts: []int{3000, 3001, 8080, 8081},
			Env:           v.GetString("APP_ENV"),
			CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		},
		Keys: APIKeys{
			AlphaVantage: v.GetString("ALPHA_VANTAGE_API_KEY"),
			FRED:         v.GetString("FRED_API_KEY"),
			News:         v.GetString("NEWS_API_KEY"),
			HuggingFace:  v.GetString("HUGGING_FACE_API_KEY"),
		},
		Plaid: PlaidConfig{
			ClientID: v.GetString("PLAID_CLIENT_ID"),
			Secret:   v.GetString("PLAID_SECRET"),
			Env:      v.GetString("PLAID_ENV"),
		},
		Cache: CacheConfig{
			UseMockData: v.GetBool("USE_MOCK_DATA"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if ms := v.GetInt64("CACHE_DURATION"); ms > 0 {
		cfg.Cache.DefaultTTL = time.Duration(ms) * time.Millisecond
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Server.Port)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
