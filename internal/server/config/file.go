package config

import (
	"time"

	"github.com/dmitrijs2005/artfolio/internal/flagx"
	"github.com/dmitrijs2005/artfolio/internal/timex"
)

// FileConfig is the on-disk form of Config. Durations accept both "15m"
// style strings and integer nanoseconds; absent fields keep their defaults.
type FileConfig struct {
	Addr                         string          `json:"addr" yaml:"addr"`
	PublicURL                    string          `json:"public_url" yaml:"public_url"`
	DatabaseDSN                  string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string          `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	MaxLoginAttempts             *int            `json:"max_login_attempts" yaml:"max_login_attempts"`
	LoginLockout                 *timex.Duration `json:"login_lockout" yaml:"login_lockout"`
	MediaBackend                 string          `json:"media_backend" yaml:"media_backend"`
	S3RootUser                   string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PresignValidityDuration      *timex.Duration `json:"presign_validity_duration" yaml:"presign_validity_duration"`
	LogLevel                     string          `json:"log_level" yaml:"log_level"`
	LogFormat                    string          `json:"log_format" yaml:"log_format"`
}

// parseFile loads the file named by -c/-config into cfg. YAML is used for
// .yaml and .yml files, JSON otherwise. Any read or decode error panics.
func parseFile(cfg *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.DecodeConfigFile(path, &fc); err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	for dst, v := range map[*string]string{
		&cfg.Addr:           fc.Addr,
		&cfg.PublicURL:      fc.PublicURL,
		&cfg.DatabaseDSN:    fc.DatabaseDSN,
		&cfg.SecretKey:      fc.SecretKey,
		&cfg.MediaBackend:   fc.MediaBackend,
		&cfg.S3RootUser:     fc.S3RootUser,
		&cfg.S3RootPassword: fc.S3RootPassword,
		&cfg.S3Bucket:       fc.S3Bucket,
		&cfg.S3Region:       fc.S3Region,
		&cfg.S3BaseEndpoint: fc.S3BaseEndpoint,
		&cfg.LogLevel:       fc.LogLevel,
		&cfg.LogFormat:      fc.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}

	for dst, v := range map[*time.Duration]*timex.Duration{
		&cfg.AccessTokenValidityDuration:  fc.AccessTokenValidityDuration,
		&cfg.RefreshTokenValidityDuration: fc.RefreshTokenValidityDuration,
		&cfg.LoginLockout:                 fc.LoginLockout,
		&cfg.PresignValidityDuration:      fc.PresignValidityDuration,
	} {
		if v != nil {
			*dst = v.Duration
		}
	}

	if fc.MaxLoginAttempts != nil {
		cfg.MaxLoginAttempts = *fc.MaxLoginAttempts
	}
}
