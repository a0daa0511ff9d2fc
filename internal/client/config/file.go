package config

import (
	"time"

	"github.com/dmitrijs2005/artfolio/internal/flagx"
	"github.com/dmitrijs2005/artfolio/internal/timex"
)

// FileConfig is a DTO used for config file unmarshalling. Durations use
// timex.Duration so files can specify them either as strings like "30s" or
// as integer nanoseconds. Unset fields leave the current value untouched.
type FileConfig struct {
	APIBaseURL     string          `json:"api_url" yaml:"api_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	MaxRetries     *int            `json:"max_retries" yaml:"max_retries"`
	RetryDelay     *timex.Duration `json:"retry_delay" yaml:"retry_delay"`
	DatabasePath   string          `json:"database_path" yaml:"database_path"`
	DownloadDir    string          `json:"download_dir" yaml:"download_dir"`
	LogLevel       string          `json:"log_level" yaml:"log_level"`
	LogFormat      string          `json:"log_format" yaml:"log_format"`
	RefreshLeeway  *timex.Duration `json:"refresh_leeway" yaml:"refresh_leeway"`
	WatchInterval  *timex.Duration `json:"watch_interval" yaml:"watch_interval"`
}

// parseFile overlays Config with values loaded from the file named by the
// -c or -config flag. The file is YAML when its extension is .yaml or .yml
// and JSON otherwise. Read or decode errors panic.
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
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.DownloadDir, fc.DownloadDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.RetryDelay, fc.RetryDelay)
	setDuration(&cfg.RefreshLeeway, fc.RefreshLeeway)
	setDuration(&cfg.WatchInterval, fc.WatchInterval)

	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
