package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CORPUS_PATH", "/data/codes.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file", cfg.CorpusSource)
	assert.Equal(t, 900, cfg.CacheTTLSec)
	assert.Equal(t, 4, cfg.BatchConcurrency)

	opts := cfg.MatchOptions()
	assert.Equal(t, 6, opts.Window)
	assert.Equal(t, 0.3, opts.MinOverlap)
	assert.Equal(t, 0.5, opts.DominanceRatio)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CORPUS_PATH", "/data/codes.csv")
	t.Setenv("PORT", "9090")
	t.Setenv("MATCH_WINDOW", "3")
	t.Setenv("MIN_OVERLAP", "0.5")
	t.Setenv("BATCH_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.Window)
	assert.Equal(t, 0.5, cfg.MinOverlap)
	assert.Equal(t, 8, cfg.BatchConcurrency)
}

func TestLoad_TOMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port = 7070\n"+
			"corpus_path = \"/toml/codes.csv\"\n"+
			"window = 4\n"), 0o644))

	t.Setenv("CLINICODE_CONFIG", path)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	// Env wins over the file; the file wins over defaults.
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/toml/codes.csv", cfg.CorpusPath)
	assert.Equal(t, 4, cfg.Window)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("missing corpus path", func(t *testing.T) {
		t.Setenv("CORPUS_PATH", "")
		_, err := Load()
		assert.ErrorContains(t, err, "corpus_path")
	})

	t.Run("unknown corpus source", func(t *testing.T) {
		t.Setenv("CORPUS_SOURCE", "s3")
		_, err := Load()
		assert.ErrorContains(t, err, "corpus_source")
	})

	t.Run("postgres source requires database url", func(t *testing.T) {
		t.Setenv("CORPUS_SOURCE", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "database_url")
	})

	t.Run("api key hash requires jwt secret", func(t *testing.T) {
		t.Setenv("CORPUS_PATH", "/data/codes.csv")
		t.Setenv("API_KEY_HASH", "$2a$10$abc")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "jwt_secret")
	})

	t.Run("out of range match options", func(t *testing.T) {
		t.Setenv("CORPUS_PATH", "/data/codes.csv")
		t.Setenv("MIN_OVERLAP", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"not a number"), 0o644))
	t.Setenv("CLINICODE_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
