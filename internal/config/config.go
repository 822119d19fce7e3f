// Package config assembles engine configuration from defaults, an
// optional TOML file and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/clinicode-labs/clinicode-core/internal/core/domain"
)

// Config is the full engine configuration.
type Config struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Version string `toml:"-"`

	// DatabaseURL enables the PostgreSQL corpus and result stores when
	// non-empty.
	DatabaseURL string `toml:"database_url"`

	// RedisURL enables the extraction result cache when non-empty.
	RedisURL string `toml:"redis_url"`

	// JWTSecret signs access tokens; APIKeyHash is the bcrypt hash
	// clients must match. An empty APIKeyHash disables authentication.
	JWTSecret  string `toml:"jwt_secret"`
	APIKeyHash string `toml:"api_key_hash"`

	// CorpusSource selects where Load reads from: "file" or "postgres".
	CorpusSource string `toml:"corpus_source"`
	CorpusPath   string `toml:"corpus_path"`
	AbbrevPath   string `toml:"abbrev_path"`

	Window         int     `toml:"window"`
	MinOverlap     float64 `toml:"min_overlap"`
	DominanceRatio float64 `toml:"dominance_ratio"`

	CacheTTLSec      int `toml:"cache_ttl_sec"`
	BatchConcurrency int `toml:"batch_concurrency"`
}

// Default returns the baseline configuration.
func Default() Config {
	opts := domain.DefaultMatchOptions()
	return Config{
		Host:             "0.0.0.0",
		Port:             8080,
		Version:          "dev",
		CorpusSource:     "file",
		Window:           opts.Window,
		MinOverlap:       opts.MinOverlap,
		DominanceRatio:   opts.DominanceRatio,
		CacheTTLSec:      900,
		BatchConcurrency: 4,
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// CLINICODE_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CLINICODE_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.APIKeyHash = getEnv("API_KEY_HASH", cfg.APIKeyHash)
	cfg.CorpusSource = getEnv("CORPUS_SOURCE", cfg.CorpusSource)
	cfg.CorpusPath = getEnv("CORPUS_PATH", cfg.CorpusPath)
	cfg.AbbrevPath = getEnv("ABBREV_PATH", cfg.AbbrevPath)
	cfg.Window = getEnvInt("MATCH_WINDOW", cfg.Window)
	cfg.MinOverlap = getEnvFloat("MIN_OVERLAP", cfg.MinOverlap)
	cfg.DominanceRatio = getEnvFloat("DOMINANCE_RATIO", cfg.DominanceRatio)
	cfg.CacheTTLSec = getEnvInt("CACHE_TTL_SEC", cfg.CacheTTLSec)
	cfg.BatchConcurrency = getEnvInt("BATCH_CONCURRENCY", cfg.BatchConcurrency)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.CorpusSource {
	case "file", "postgres":
	default:
		return fmt.Errorf("corpus_source must be file or postgres, got %q", c.CorpusSource)
	}
	if c.CorpusSource == "file" && c.CorpusPath == "" {
		return fmt.Errorf("corpus_path is required with corpus_source=file")
	}
	if c.CorpusSource == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required with corpus_source=postgres")
	}
	if c.APIKeyHash != "" && c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required when api_key_hash is set")
	}
	if _, err := c.MatchOptions().Normalize(); err != nil {
		return err
	}
	return nil
}

// MatchOptions returns the configured default match options.
func (c Config) MatchOptions() domain.MatchOptions {
	return domain.MatchOptions{
		Window:         c.Window,
		MinOverlap:     c.MinOverlap,
		DominanceRatio: c.DominanceRatio,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
