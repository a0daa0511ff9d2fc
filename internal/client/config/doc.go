// Package config loads runtime configuration for the artfolio CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via flags: -c or -config. Files ending
//     in .yaml or .yml are read as YAML, anything else as JSON.
//  3. The API_URL environment variable.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-r int      max retries
//	-d string   credential database path
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:8000/api",
//	  "request_timeout": "30s",
//	  "max_retries": 3,
//	  "retry_delay": "1s",
//	  "database_path": "artfolio.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "refresh_leeway": "1m",
//	  "watch_interval": "2s"
//	}
package config
