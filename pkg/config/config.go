// Package config manages npackd-go's ambient settings: cache/state
// directories, network tuning, and output preferences. Grounded on the
// teacher's pkg/config/config.go (yaml.v3 struct, DefaultConfig/Load/Save
// idiom), layered with github.com/spf13/viper so a config file, NPACKD_*
// environment variables and CLI flags all resolve through one precedence
// chain instead of the teacher's plain yaml.Unmarshal (sw33tLie-bbscope's
// cmd/root.go initConfig is the viper layering this follows). The
// configured repository URL list itself is not part of this struct — see
// repositories.go, which persists it to the Windows registry the way
// spec.md's external-interfaces section describes, rather than to this
// YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/npackd/npackd-go/pkg/fsutil"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// Settings holds the tunables every npackd-go operation reads.
type Settings struct {
	CacheDir   string `yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`
	StateDir   string `yaml:"state_dir,omitempty" mapstructure:"state_dir"`
	InstallDir string `yaml:"install_dir,omitempty" mapstructure:"install_dir"`
	MetaDir    string `yaml:"meta_dir,omitempty" mapstructure:"meta_dir"`
	PluginDir  string `yaml:"plugin_dir,omitempty" mapstructure:"plugin_dir"`

	HTTPTimeout   time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_loads" mapstructure:"max_concurrent_loads"`

	OutputFormat string `yaml:"output_format" mapstructure:"output_format"` // text, json
	LogLevel     string `yaml:"log_level" mapstructure:"log_level"`

	// RepositoryAuth maps a repository URL (as configured in the registry,
	// see repositories.go) to the credentials pkg/loader's Fetcher should
	// present when fetching it. Stored in the YAML file (and so, unlike
	// the URL list itself, never touches the registry) since credentials
	// are an npackd-go addition with no equivalent registry layout to
	// honour.
	RepositoryAuth map[string]*AuthConfig `yaml:"repository_auth,omitempty" mapstructure:"repository_auth"`
}

// Config is the top-level, file-backed configuration.
type Config struct {
	Settings Settings `yaml:"settings" mapstructure:"settings"`
}

const (
	// DefaultHTTPTimeout is the fetcher's default per-request timeout.
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultMaxConcurrent bounds how many repository URLs pkg/loader
	// fetches at once.
	DefaultMaxConcurrent = 5
	// yamlIndent is the number of spaces SaveConfig indents with.
	yamlIndent = 2
)

// DefaultConfig returns a Config with every directory resolved against the
// current platform's conventional locations (pkg/fsutil), matching the
// teacher's DefaultConfig layering pattern.
func DefaultConfig() *Config {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), fsutil.AppName, "cache")
	}
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		dataDir = filepath.Join(os.TempDir(), fsutil.AppName)
	}
	metaDir, err := fsutil.GetMetaDir()
	if err != nil {
		metaDir = filepath.Join(dataDir, "meta")
	}

	return &Config{
		Settings: Settings{
			CacheDir:      cacheDir,
			StateDir:      dataDir,
			InstallDir:    filepath.Join(dataDir, "installed"),
			MetaDir:       metaDir,
			PluginDir:     filepath.Join(dataDir, "plugins"),
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			OutputFormat:  "text",
			LogLevel:      "info",
		},
	}
}

// LoadConfig reads npackd-go's layered configuration: DefaultConfig's
// values, overridden by path's YAML contents (if path is non-empty and the
// file exists), overridden in turn by NPACKD_-prefixed environment
// variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "reading config %s: %v", path, err)
			}
		}
	}

	v.SetEnvPrefix("NPACKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrInternal, "decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("settings.cache_dir", defaults.Settings.CacheDir)
	v.SetDefault("settings.state_dir", defaults.Settings.StateDir)
	v.SetDefault("settings.install_dir", defaults.Settings.InstallDir)
	v.SetDefault("settings.meta_dir", defaults.Settings.MetaDir)
	v.SetDefault("settings.plugin_dir", defaults.Settings.PluginDir)
	v.SetDefault("settings.http_timeout", defaults.Settings.HTTPTimeout)
	v.SetDefault("settings.max_concurrent_loads", defaults.Settings.MaxConcurrent)
	v.SetDefault("settings.output_format", defaults.Settings.OutputFormat)
	v.SetDefault("settings.log_level", defaults.Settings.LogLevel)
}

// SaveConfig writes c to path as YAML, atomically via a temp file + rename,
// matching the teacher's SaveConfig.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "empty config path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "%v", err)
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "%v", err)
	}
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "encoding config: %v", err)
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "%v", err)
	}
	return nil
}

// ToYAML renders c as YAML, for "npackd config show".
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrInternal, "%v", err)
	}
	return data, nil
}

// Validate checks field-level invariants not already enforced by type.
func (c *Config) Validate() error {
	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout cannot be negative")
	}
	if c.Settings.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent_loads must be at least 1")
	}
	switch c.Settings.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output_format %q, must be text or json", c.Settings.OutputFormat)
	}
	switch c.Settings.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of debug, info, warn, error", c.Settings.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the conventional config file location,
// "<data dir>/config.yaml".
func GetDefaultConfigPath() (string, error) {
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		return "", npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "%v", err)
	}
	return filepath.Join(dataDir, "config.yaml"), nil
}
