package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeTemp(t, "cfg.json", `{"api_url":"http://json/api","request_timeout":"10s","watch_interval":500000000}`)
		withArgs(t, "-config", path)

		cfg := defaults()
		parseFile(&cfg)

		assert.Equal(t, "http://json/api", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 500*time.Millisecond, cfg.WatchInterval)
		assert.Equal(t, 3, cfg.MaxRetries, "absent keys keep their value")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeTemp(t, "cfg.yml", "database_path: /var/lib/artfolio.db\nmax_retries: 0\nrefresh_leeway: 2m\n")
		withArgs(t, "-c", path)

		cfg := defaults()
		parseFile(&cfg)

		assert.Equal(t, "/var/lib/artfolio.db", cfg.DatabasePath)
		assert.Equal(t, 0, cfg.MaxRetries)
		assert.Equal(t, 2*time.Minute, cfg.RefreshLeeway)
	})

	t.Run("no file flag leaves config untouched", func(t *testing.T) {
		withArgs(t)

		cfg := defaults()
		parseFile(&cfg)
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := writeTemp(t, "bad.json", `{ this is not json`)
		withArgs(t, "-c", path)

		cfg := defaults()
		require.Panics(t, func() { parseFile(&cfg) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))

		cfg := defaults()
		require.Panics(t, func() { parseFile(&cfg) })
	})
}
