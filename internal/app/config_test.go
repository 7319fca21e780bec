package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no config.yaml or .env
// from the repository is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadFetchConfig_Defaults(t *testing.T) {
	inTempDir(t)

	var cfg FetchConfig
	require.NoError(t, load(&cfg, []string{}))

	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadFetchConfig_Env(t *testing.T) {
	inTempDir(t)
	t.Setenv("CATALOG_BASE_URL", "https://api.example.com")
	t.Setenv("CATALOG_TIMEOUT", "500ms")

	var cfg FetchConfig
	require.NoError(t, load(&cfg, []string{}))

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
}

func TestLoadFetchConfig_Flags(t *testing.T) {
	inTempDir(t)

	var cfg FetchConfig
	require.NoError(t, load(&cfg, []string{"-base-url=https://flag.example.com"}))

	assert.Equal(t, "https://flag.example.com", cfg.BaseURL)
}

func TestLoadFetchConfig_DotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_BASE_URL=https://dotenv.example.com\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_BASE_URL") })

	var cfg FetchConfig
	require.NoError(t, load(&cfg, []string{}))

	assert.Equal(t, "https://dotenv.example.com", cfg.BaseURL)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"addr: 127.0.0.1:9090\ndatabase_url: postgres://localhost/catalog\n",
	), 0o600))

	var cfg Config
	require.NoError(t, load(&cfg, []string{}))

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/catalog", cfg.DatabaseURL)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestApplyPlatformDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/catalog")
	t.Setenv("PORT", "3000")

	cfg := Config{Addr: "0.0.0.0:8080"}
	cfg.applyPlatformDefaults()

	assert.Equal(t, "postgres://platform/catalog", cfg.DatabaseURL)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr)
}

func TestApplyPlatformDefaults_ExplicitWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/catalog")
	t.Setenv("PORT", "3000")

	cfg := Config{Addr: "127.0.0.1:9999", DatabaseURL: "postgres://explicit/catalog"}
	cfg.applyPlatformDefaults()

	assert.Equal(t, "postgres://explicit/catalog", cfg.DatabaseURL)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
}
