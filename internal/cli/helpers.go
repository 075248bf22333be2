package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/config"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/npackd/npackd-go/pkg/logger"
	"github.com/npackd/npackd-go/pkg/searchindex"
)

// These variables are set by cmd/npackd's root command before any
// subcommand runs.
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// loadConfig resolves the layered configuration (file, env, defaults),
// applying the global --output/--no-color/--verbose flags on top, and
// initializes the process-wide logger to match.
func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("resolving default config path: %w", err)
		}
		path = defaultPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.InitLogger(cfg.Settings.LogLevel, NoColor != nil && *NoColor)

	return cfg, nil
}

// openCatalog opens the local package catalogue at cfg's state directory,
// creating the directory if necessary.
func openCatalog(cfg *config.Config) (*catalog.Store, error) {
	if err := os.MkdirAll(cfg.Settings.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return catalog.Open(catalogPath(cfg))
}

// openSearchIndex opens the full-text search index alongside the
// catalogue.
func openSearchIndex(cfg *config.Config) (*searchindex.Store, error) {
	if err := os.MkdirAll(cfg.Settings.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return searchindex.Open(searchIndexPath(cfg))
}

// openInstalled opens the installed-packages registry (the Windows
// registry on Windows builds, an in-memory fake elsewhere), loading its
// current contents.
func openInstalled() (*installed.Registry, error) {
	r := installed.New(installed.DefaultRegistryStore())
	if err := r.ReadRegistryDatabase(); err != nil {
		return nil, fmt.Errorf("reading installed-packages registry: %w", err)
	}
	return r, nil
}

// openFetcher builds the shared HTTP fetcher, arming any per-repository
// credentials configured in cfg.
func openFetcher(cfg *config.Config) *loader.Fetcher {
	f := loader.NewFetcher()
	for repoURL, authenticator := range cfg.ToAuthMap() {
		f.SetAuthenticator(repoURL, authenticator)
	}
	return f
}

func catalogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Settings.StateDir, "catalog.db")
}

func searchIndexPath(cfg *config.Config) string {
	return filepath.Join(cfg.Settings.StateDir, "search.db")
}
