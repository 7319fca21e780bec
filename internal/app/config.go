package app

import (
	"io/fs"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const envPrefix = "CATALOG"

var configFiles = []string{"config.yaml", "/etc/catalog/config.yaml"}

// Config holds the catalog server configuration, loadable from environment
// variables (CATALOG_ prefix), flags, a .env file or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (CATALOG_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	RPS   float64 `default:"20" usage:"Sustained requests per second per client"`
	Burst int     `default:"40" usage:"Maximum burst per client"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// FetchConfig holds the configuration of the fetch command.
type FetchConfig struct {
	BaseURL string        `default:"http://localhost:3000" usage:"Catalog API base URL" flag:"base-url"`
	Timeout time.Duration `default:"2s" usage:"Products request timeout"`
}

// LoadConfig loads the server configuration and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := load(&cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set CATALOG_DATABASE_URL or DATABASE_URL")
	}
	return &cfg, nil
}

// LoadFetchConfig loads the fetch command configuration.
func LoadFetchConfig() (*FetchConfig, error) {
	var cfg FetchConfig
	if err := load(&cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(dst any, args []string) error {
	// Values already in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "load .env")
	}

	loader := aconfig.LoaderFor(dst, aconfig.Config{
		EnvPrefix: envPrefix,
		Files:     configFiles,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
		Args: args,
	})
	if err := loader.Load(); err != nil {
		return errors.Wrap(err, "load config")
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names like DATABASE_URL and PORT to the CATALOG_-prefixed
// configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
