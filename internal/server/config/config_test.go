package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"server"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.Addr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 5, c.MaxLoginAttempts)
	assert.Equal(t, MediaDatabase, c.MediaBackend)
	assert.Equal(t, "artfolio", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	withArgs(t)

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(want, *c))
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":9000",
		"secret_key": "from-file",
		"access_token_validity_duration": "2m",
		"max_login_attempts": 3,
		"media_backend": "s3"
	}`), 0o600))

	withArgs(t, "-c", path, "-s", "from-flag")

	c := LoadConfig()

	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "from-flag", c.SecretKey)
	assert.Equal(t, 2*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 3, c.MaxLoginAttempts)
	assert.Equal(t, MediaS3, c.MediaBackend)
}

func TestParseFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yml")
	require.NoError(t, os.WriteFile(path, []byte("login_lockout: 10m\ns3_bucket: photos\n"), 0o600))
	withArgs(t, "-config", path)

	var c Config
	c.LoadDefaults()
	parseFile(&c)

	assert.Equal(t, 10*time.Minute, c.LoginLockout)
	assert.Equal(t, "photos", c.S3Bucket)
	assert.Equal(t, ":8000", c.Addr)
}

func TestParseFile_BadInputPanics(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	withArgs(t, "-c", bad)
	assert.Panics(t, func() { parseFile(&Config{}) })

	withArgs(t, "-c", filepath.Join(dir, "missing.json"))
	assert.Panics(t, func() { parseFile(&Config{}) })
}
