package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/config"
	"github.com/npackd/npackd-go/pkg/detect"
	"github.com/npackd/npackd-go/pkg/detect/winapi"
	"github.com/npackd/npackd-go/pkg/hook"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/job"
	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/npackd/npackd-go/pkg/logger"
	"github.com/spf13/cobra"
)

// NewRefreshCmd creates the refresh command: fetch every configured
// repository, merge it into the local catalogue, reconcile the detection
// pipeline, and rebuild the search index if the merged content changed.
func NewRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload repositories and reconcile detected packages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd.Context())
		},
	}
}

func runRefresh(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	urls, err := config.DefaultRepositoryStore().List()
	if err != nil {
		return fmt.Errorf("listing repositories: %w", err)
	}

	j := job.New(ctx, func(e job.Event) {
		logger.Debug(fmt.Sprintf("%s: %s (%.0f%%)", e.Phase, e.ID, e.Progress*100))
	})

	fetcher := openFetcher(cfg)
	loadJob, detectJob := split2(j)

	result, err := loader.Load(ctx, fetcher, urls, cfg.Settings.MaxConcurrent, loadJob)
	if err != nil {
		return fmt.Errorf("loading repositories: %w", err)
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalogue: %w", err)
	}
	defer func() { _ = cat.Close() }()

	if err := mergeIntoCatalog(cat, result); err != nil {
		return err
	}

	instRegistry, err := openInstalled()
	if err != nil {
		return err
	}
	if errs := runDetectionPipeline(ctx, cfg, cat, instRegistry, detectJob); len(errs) > 0 {
		for _, e := range errs {
			logger.Warn(fmt.Sprintf("detection step %q: %v", e.Step, e.Err))
		}
	}

	if err := cat.DeleteOrphanPackages(); err != nil {
		return fmt.Errorf("pruning orphan packages: %w", err)
	}

	if err := rebuildSearchIndex(cfg, cat, instRegistry, result.AggregateKey); err != nil {
		return fmt.Errorf("rebuilding search index: %w", err)
	}

	logger.Success(fmt.Sprintf("Refreshed %d repositories: %d packages, %d versions", len(urls), len(result.Packages), len(result.Versions)))
	return nil
}

// split2 divides j into a loading half and a detecting half, falling back
// to two nils when j itself is nil.
func split2(j *job.Job) (*job.Job, *job.Job) {
	if j == nil {
		return nil, nil
	}
	parts := j.Split(0.6, 0.4)
	return parts[0], parts[1]
}

func mergeIntoCatalog(cat *catalog.Store, result *loader.Result) error {
	if err := cat.Clear(); err != nil {
		return fmt.Errorf("clearing catalogue: %w", err)
	}
	for i := range result.Licenses {
		if err := cat.SaveLicense(&result.Licenses[i]); err != nil {
			return fmt.Errorf("saving license %s: %w", result.Licenses[i].Name, err)
		}
	}
	for i := range result.Packages {
		if err := cat.SavePackage(&result.Packages[i]); err != nil {
			return fmt.Errorf("saving package %s: %w", result.Packages[i].Name, err)
		}
	}
	for i := range result.Versions {
		if err := cat.SavePackageVersion(&result.Versions[i]); err != nil {
			return fmt.Errorf("saving %s %s: %w", result.Versions[i].PackageName, result.Versions[i].Version.String(), err)
		}
	}
	return nil
}

func runDetectionPipeline(ctx context.Context, cfg *config.Config, cat *catalog.Store, instRegistry *installed.Registry, j *job.Job) []detect.StepError {
	hooks := hook.NewRegistry()
	if cfg.Settings.PluginDir != "" {
		if err := hooks.LoadDir(cfg.Settings.PluginDir); err != nil {
			logger.Debug(fmt.Sprintf("loading plugins from %s: %v", cfg.Settings.PluginDir, err))
		}
	}

	session := &detect.Session{
		Catalog:       cat,
		Installed:     instRegistry,
		Hooks:         hooks,
		API:           winapi.New(),
		Job:           j,
		WindowsDir:    windowsDir(),
		InstallRoot:   cfg.Settings.InstallDir,
		PluginDataDir: pluginDataDir(cfg),
	}
	return detect.NewPipeline().Run(ctx, session)
}

func rebuildSearchIndex(cfg *config.Config, cat *catalog.Store, instRegistry *installed.Registry, aggregateKey string) error {
	idx, err := openSearchIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	rebuilt, err := idx.EnsureValid(aggregateKey)
	if err != nil {
		return err
	}
	if !rebuilt {
		return nil
	}
	return idx.Rebuild(cat, instRegistry)
}

func pluginDataDir(cfg *config.Config) string {
	return filepath.Join(cfg.Settings.StateDir, "detected")
}

func windowsDir() string {
	if d := os.Getenv("WINDIR"); d != "" {
		return d
	}
	return `C:\Windows`
}
