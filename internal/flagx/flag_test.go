package flagx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://gallery.local/api", "-t", "10"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://gallery.local/api"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=cli.yaml", "-a", "x"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=cli.yaml"},
		},
		{
			name:    "order and repeats preserved",
			args:    []string{"-c", "one.json", "-x", "1", "-c=two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c=two.json"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next flag is not taken as value",
			args:    []string{"-c", "-l", "debug"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "stops at double dash",
			args:    []string{"-l", "debug", "--", "-l", "error"},
			allowed: []string{"-l"},
			want:    []string{"-l", "debug"},
		},
		{
			name:    "nothing allowed matches",
			args:    []string{"-x", "1", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/artfolio.yaml", configPath([]string{"-c", "/etc/artfolio.yaml"}))
	assert.Equal(t, "server.json", configPath([]string{"-a", ":8000", "-config", "server.json"}))
	assert.Equal(t, "b.json", configPath([]string{"-c", "a.json", "-config=b.json"}), "last wins")
	assert.Empty(t, configPath([]string{"-x", "1"}))
}

func TestDecodeConfigFile(t *testing.T) {
	type settings struct {
		APIURL     string `json:"api_url" yaml:"api_url"`
		MaxRetries int    `json:"max_retries" yaml:"max_retries"`
	}
	dir := t.TempDir()

	yml := filepath.Join(dir, "cli.YML")
	require.NoError(t, os.WriteFile(yml, []byte("api_url: http://a/api\nmax_retries: 2\n"), 0o600))
	var got settings
	require.NoError(t, DecodeConfigFile(yml, &got))
	assert.Equal(t, settings{APIURL: "http://a/api", MaxRetries: 2}, got)

	js := filepath.Join(dir, "cli.conf")
	require.NoError(t, os.WriteFile(js, []byte(`{"api_url":"http://b/api"}`), 0o600))
	got = settings{}
	require.NoError(t, DecodeConfigFile(js, &got))
	assert.Equal(t, "http://b/api", got.APIURL)

	require.NoError(t, os.WriteFile(js, []byte(`api_url: not json`), 0o600))
	err := DecodeConfigFile(js, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cli.conf")

	assert.Error(t, DecodeConfigFile(filepath.Join(dir, "missing.yaml"), &got))
}
