// Package config handles configuration for the reference server,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import "time"

// Media backends accepted by Config.MediaBackend.
const (
	MediaDatabase = "db"
	MediaS3       = "s3"
)

// Config holds runtime settings for the artfolio reference server.
//
// Fields:
//   - Addr: bind address of the HTTP API.
//   - PublicURL: absolute base used to build media links; empty means the
//     links are derived from the incoming request.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - MaxLoginAttempts / LoginLockout: failed logins tolerated per email and
//     how long the counter is kept.
//   - DatabaseDSN: SQLite file path, or ":memory:" for a throwaway database.
//   - MediaBackend: "db" (images kept in the database) or "s3".
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - PresignValidityDuration: lifetime of presigned download links.
type Config struct {
	Addr                         string
	PublicURL                    string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	MaxLoginAttempts             int
	LoginLockout                 time.Duration
	MediaBackend                 string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
	PresignValidityDuration      time.Duration
	LogLevel                     string
	LogFormat                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.PublicURL = ""
	c.DatabaseDSN = ":memory:"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.MaxLoginAttempts = 5
	c.LoginLockout = time.Hour
	c.MediaBackend = MediaDatabase
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "artfolio"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PresignValidityDuration = 15 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
