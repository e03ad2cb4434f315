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

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "127.0.0.1:8080", c.ServerEndpointAddr)
	assert.Equal(t, "http", c.Transport)
	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 12*time.Second, c.RequestTimeout)
	assert.True(t, c.RememberSecret)
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-t", "grpc", "-s", "badger", "-d", "/tmp/x", "-i", "10", "-r", "2", "-l", "debug", "-k=false"},
			want: func(c *Config) {
				c.ServerEndpointAddr = "127.0.0.1:9090"
				c.Transport = "grpc"
				c.StoreDriver = "badger"
				c.DataDir = "/tmp/x"
				c.OnlineCheckInterval = 10 * time.Second
				c.RequestTimeout = 2 * time.Second
				c.LogLevel = "debug"
				c.RememberSecret = false
			},
		},
		{
			name: "unknown flags ignored",
			args: []string{"-x", "1", "-a", "h:1"},
			want: func(c *Config) { c.ServerEndpointAddr = "h:1" },
		},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, cfg))
		})
	}
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := writeFile(t, "client.json", `{
		"server_endpoint_addr": "www.example:9000",
		"transport": "grpc",
		"online_check_interval": "10s",
		"request_timeout": 5000000000
	}`)

	cfg, err := LoadConfig([]string{"-config", path, "-a", "override:1"})
	require.NoError(t, err)

	want := defaults()
	want.ServerEndpointAddr = "override:1"
	want.Transport = "grpc"
	want.OnlineCheckInterval = 10 * time.Second
	want.RequestTimeout = 5 * time.Second
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "client.yaml", "store_driver: badger\ndata_dir: /var/lib/gophdocs\nlog_level: info\nremember_secret: false\n")

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.StoreDriver)
	assert.Equal(t, "/var/lib/gophdocs", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RememberSecret)
	assert.Equal(t, "127.0.0.1:8080", cfg.ServerEndpointAddr)
}

func TestLoadConfig_BadFile(t *testing.T) {
	_, err := LoadConfig([]string{"-c", writeFile(t, "bad.json", "{ nope")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}
