package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    func(*Config)
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api.example/api", "-t", "10", "-r", "0", "-d", "/tmp/x.db", "-l", "debug"},
			expected: func(c *Config) {
				c.APIBaseURL = "http://api.example/api"
				c.RequestTimeout = 10 * time.Second
				c.MaxRetries = 0
				c.DatabasePath = "/tmp/x.db"
				c.LogLevel = "debug"
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-c", "cfg.json"},
			expected: func(*Config) {},
		},
		{name: "invalid timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}

			require.NotPanics(t, func() { parseFlags(&cfg) })
			want := defaults()
			tt.expected(&want)
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
