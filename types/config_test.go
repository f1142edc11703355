package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, APIv7_1, cfg.APIVersion)
	assert.True(t, cfg.AutoRelease)
	assert.Empty(t, cfg.LogLevel)
	require.NoError(t, cfg.Validate())

	cfg.APIVersion = APIUnknown
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vboxapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
library_path: /usr/lib/virtualbox/VBoxXPCOMC.so
api_version: "7.0"
log_level: debug
auto_release: false
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/virtualbox/VBoxXPCOMC.so", cfg.LibraryPath)
	assert.Equal(t, APIv7_0, cfg.APIVersion)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.AutoRelease)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_version: 9.9\n"), 0o600))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestConfigEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.applyEnv(env(map[string]string{
		EnvLibraryPath:      "/opt/vbox/VBoxXPCOMC.so",
		EnvAPIVersion:       "6.1",
		EnvLayoutFile:       "/etc/vboxapi/layouts.yaml",
		EnvLogLevel:         "trace",
		EnvSkipVersionCheck: "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, Config{
		LibraryPath:      "/opt/vbox/VBoxXPCOMC.so",
		APIVersion:       APIv6_1,
		LayoutFile:       "/etc/vboxapi/layouts.yaml",
		LogLevel:         "trace",
		SkipVersionCheck: true,
		AutoRelease:      true,
	}, cfg)

	cfg = DefaultConfig()
	assert.Error(t, cfg.applyEnv(env(map[string]string{EnvAPIVersion: "8"})))
	assert.Error(t, cfg.applyEnv(env(map[string]string{EnvSkipVersionCheck: "maybe"})))
}
