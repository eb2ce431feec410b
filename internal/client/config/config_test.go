package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/todophotos/internal/flagx"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"todo-client"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")
	withArgs(t)

	want := &Config{
		ServerURL:      "http://127.0.0.1:8080",
		HealthAddr:     "127.0.0.1:50051",
		RequestTimeout: 10 * time.Second,
	}
	if diff := cmp.Diff(want, LoadConfig()); diff != "" {
		t.Fatalf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://todos.internal:8080",
		"health_addr": "todos.internal:50051",
		"request_timeout": "30s"
	}`), 0o600))

	withArgs(t, "-c", path, "-s", "http://override:9090", "-unknown", "x")

	cfg := LoadConfig()
	assert.Equal(t, "http://override:9090", cfg.ServerURL)
	assert.Equal(t, "todos.internal:50051", cfg.HealthAddr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"health_addr":"h:1"}`), 0o600))
	withArgs(t, "-config", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, "h:1", cfg.HealthAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseJson_PanicsOnBadFile(t *testing.T) {
	t.Setenv(flagx.ConfigPathEnv, "")

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	withArgs(t, "-c", path)

	cfg := &Config{}
	assert.Panics(t, func() { parseJson(cfg) })
}

func TestParseFlags_Timeout(t *testing.T) {
	withArgs(t, "-t", "3", "-g", "127.0.0.1:6000")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "127.0.0.1:6000", cfg.HealthAddr)
}
