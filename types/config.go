package types

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls how the binding finds and talks to the native library.
type Config struct {
	// LibraryPath is the VBoxXPCOMC shared object. Empty means search the
	// usual install locations.
	LibraryPath string `yaml:"library_path"`
	// APIVersion selects the vtable layouts.
	APIVersion APIVersion `yaml:"api_version"`
	// LayoutFile optionally overrides or extends the embedded layouts.
	LayoutFile string `yaml:"layout_file"`
	// LogLevel is a zerolog level name; empty disables logging.
	LogLevel string `yaml:"log_level"`
	// SkipVersionCheck allows a library whose release differs from APIVersion.
	SkipVersionCheck bool `yaml:"skip_version_check"`
	// AutoRelease attaches finalizers that release native references of
	// wrappers the caller forgot to Release.
	AutoRelease bool `yaml:"auto_release"`
}

// Environment variables that override file values.
const (
	EnvLibraryPath      = "VBOXAPI_LIBRARY"
	EnvAPIVersion       = "VBOXAPI_API_VERSION"
	EnvLayoutFile       = "VBOXAPI_LAYOUT"
	EnvLogLevel         = "VBOXAPI_LOG_LEVEL"
	EnvSkipVersionCheck = "VBOXAPI_SKIP_VERSION_CHECK"
)

func DefaultConfig() Config {
	return Config{
		APIVersion:  DefaultAPIVersion,
		AutoRelease: true,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and applies
// environment overrides. An empty path only applies the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		bz, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(bz, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLibraryPath); ok {
		c.LibraryPath = v
	}
	if v, ok := lookup(EnvAPIVersion); ok {
		ver, err := ParseAPIVersion(v)
		if err != nil {
			return errors.Wrap(err, EnvAPIVersion)
		}
		c.APIVersion = ver
	}
	if v, ok := lookup(EnvLayoutFile); ok {
		c.LayoutFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvSkipVersionCheck); ok {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, EnvSkipVersionCheck)
		}
		c.SkipVersionCheck = skip
	}
	return nil
}

// Validate rejects configurations the runtime cannot start with.
func (c Config) Validate() error {
	if c.APIVersion == APIUnknown {
		return errors.New("api_version must be one of v6_1, v7_0, v7_1")
	}
	return nil
}
