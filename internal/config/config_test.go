package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "esia.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1024, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 10, cfg.Classifier.ChunkWindow)
	assert.InDelta(t, 0.6, cfg.Router.FuzzyWeight, 0.001)
	assert.InDelta(t, 0.4, cfg.Router.KeywordWeight, 0.001)
	assert.InDelta(t, 0.3, cfg.Router.MinConfidence, 0.001)
	assert.Equal(t, 5, cfg.Router.TopN)
	assert.Equal(t, 8, cfg.Pipeline.MaxConcurrentSections)
	assert.InDelta(t, 5.0, cfg.Pipeline.RequestsPerSecond, 0.001)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500, cfg.Retry.InitialBackoffMs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/esia
log:
  level: debug
  format: console
router:
  min_confidence: 0.5
  top_n: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 0.5, cfg.Router.MinConfidence, 0.001)
	assert.Equal(t, 3, cfg.Router.TopN)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.6, cfg.Router.FuzzyWeight, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ESIA_STORE_DRIVER", "postgres")
	t.Setenv("ESIA_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ESIA_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Router.FuzzyWeight = 0.6
	cfg.Router.KeywordWeight = 0.4
	cfg.Router.MinConfidence = 0.3
	cfg.Pipeline.MaxConcurrentSections = 8
	cfg.Pipeline.RequestsPerSecond = 5
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateExtract_AllPresent(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Store.DatabaseURL = "esia.db"

	assert.NoError(t, cfg.Validate("extract"))
}

func TestValidateExtract_MissingFields(t *testing.T) {
	cfg := validDefaults()
	// All extract-required fields are empty

	err := cfg.Validate("extract")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateRoute_NoCredentialsNeeded(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("route"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateRouterWeightBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Router.FuzzyWeight = 1.5
	err := cfg.Validate("route")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "router.fuzzy_weight")

	cfg.Router.FuzzyWeight = 0.6
	cfg.Router.MinConfidence = -0.1
	err = cfg.Validate("route")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "router.min_confidence")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Pipeline.MaxConcurrentSections = 0
	err := cfg.Validate("route")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_sections must be between 1 and 64")

	cfg.Pipeline.MaxConcurrentSections = 65
	err = cfg.Validate("route")
	assert.Error(t, err)

	cfg.Pipeline.MaxConcurrentSections = 64
	err = cfg.Validate("route")
	assert.NoError(t, err)
}
