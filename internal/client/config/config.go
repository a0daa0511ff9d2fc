package config

import "time"

// Config holds runtime settings for the artfolio CLI.
//
// Units: RequestTimeout, RetryDelay, RefreshLeeway and WatchInterval are
// time.Duration values (e.g., 30*time.Second).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	DatabasePath string
	DownloadDir  string

	LogLevel  string
	LogFormat string

	// RefreshLeeway is how long before access-token expiry a refresh is
	// attempted; WatchInterval is the period of the credential poll and of
	// the auto-refresh check.
	RefreshLeeway time.Duration
	WatchInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 30 * time.Second
	c.MaxRetries = 3
	c.RetryDelay = time.Second
	c.DatabasePath = "artfolio.db"
	c.DownloadDir = "downloads"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RefreshLeeway = time.Minute
	c.WatchInterval = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

// normalize replaces settings that would break the client at runtime: a
// non-positive request timeout or watch interval falls back to its default,
// negative delays become zero.
func (c *Config) normalize() {
	var d Config
	d.LoadDefaults()

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = d.WatchInterval
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.RefreshLeeway < 0 {
		c.RefreshLeeway = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
}
