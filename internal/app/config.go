package app

import (
	"net/url"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	Title       string `default:"Women's Clothing" usage:"Listing page title"`
	Currency    string `default:"$" usage:"Symbol prepended to prices"`
	Catalog     CatalogConfig
	Compression CompressionConfig
	RateLimit   RateLimitConfig
	Health      HealthConfig
	Graceful    GracefulConfig
}

// CatalogConfig points at the upstream product catalog.
type CatalogConfig struct {
	URL       string        `default:"https://fakestoreapi.com/products/category/women's%20clothing" usage:"Catalog endpoint returning a JSON array of products" flag:"catalog-url"`
	Timeout   time.Duration `default:"10s" usage:"Upstream request timeout" flag:"catalog-timeout"`
	UserAgent string        `default:"storefront/1.0" usage:"User-Agent sent upstream" flag:"catalog-user-agent"`
}

// CompressionConfig controls response compression.
type CompressionConfig struct {
	Level int `default:"5" usage:"gzip level, 1 (fastest) to 9 (smallest)"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"60" usage:"Max page requests per window"`
	Window time.Duration `default:"1m" usage:"Rate limit window duration"`
}

// HealthConfig controls background health checks.
type HealthConfig struct {
	Interval time.Duration `default:"10s" usage:"Interval between health check runs" flag:"health-interval"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags and
// YAML config files, applies platform defaults and validates the result.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(acfg aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, acfg).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the PORT variable set by hosting platforms
// (Railway, Render, etc.) onto the listen address unless it was changed.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Catalog.URL)
	if err != nil {
		return errors.Wrap(err, "catalog url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("catalog url %q must be an absolute http(s) url", c.Catalog.URL)
	}
	if c.Catalog.Timeout <= 0 {
		return errors.Errorf("catalog timeout must be positive, got %s", c.Catalog.Timeout)
	}
	if c.Compression.Level < 1 || c.Compression.Level > 9 {
		return errors.Errorf("compression level must be within 1..9, got %d", c.Compression.Level)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.Errorf("rate limit must be positive, got %d per %s", c.RateLimit.Max, c.RateLimit.Window)
	}
	if c.Health.Interval <= 0 {
		return errors.Errorf("health interval must be positive, got %s", c.Health.Interval)
	}
	return nil
}
