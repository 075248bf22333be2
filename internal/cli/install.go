package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/config"
	"github.com/npackd/npackd-go/pkg/execute"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/logger"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/planner"
	"github.com/npackd/npackd-go/pkg/searchindex"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>",
		Short: "Install a package",
		Long: `Install a package's newest installable version, pulling in any
unsatisfied dependency first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), args[0])
		},
	}
}

func runInstall(ctx context.Context, pkg string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalogue: %w", err)
	}
	defer func() { _ = cat.Close() }()

	registry, err := openInstalled()
	if err != nil {
		return err
	}

	ops, err := planner.New(cat, registry).PlanInstall(pkg)
	if err != nil {
		return fmt.Errorf("planning install of %s: %w", pkg, err)
	}

	idx, err := openSearchIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	return executePlan(ctx, cfg, cat, registry, idx, ops)
}

// executePlan runs every planned operation in order, downloading and
// extracting installs, running Uninstall.bat, and recording the outcome in
// the installed-packages registry and search index — matching the
// planner's own single-pass, no-rollback execution model.
func executePlan(ctx context.Context, cfg *config.Config, cat *catalog.Store, registry *installed.Registry, idx *searchindex.Store, ops []model.InstallOperation) error {
	if len(ops) == 0 {
		logger.Info("Nothing to do")
		return nil
	}

	downloader := execute.NewHTTPDownloader(openFetcher(cfg))
	extractor := execute.NewArchiveExtractor()
	scripts := execute.NewCmdScriptRunner()

	for _, op := range ops {
		pv := op.PackageVersion
		pv.Lock()
		err := runOperation(ctx, cfg, downloader, extractor, scripts, registry, idx, op)
		pv.Unlock()
		if err != nil {
			return fmt.Errorf("%s %s %s: %w", op.Kind, pv.PackageName, pv.Version.String(), err)
		}
	}
	return nil
}

func runOperation(ctx context.Context, cfg *config.Config, downloader *execute.HTTPDownloader, extractor *execute.ArchiveExtractor, scripts *execute.CmdScriptRunner, registry *installed.Registry, idx *searchindex.Store, op model.InstallOperation) error {
	pv := op.PackageVersion
	dir := packageDir(cfg, pv)
	if op.Kind == model.OpUninstall {
		if rec := registry.Find(pv.PackageName, pv.Version); rec != nil && rec.Directory != "" {
			dir = rec.Directory
		}
	}

	switch op.Kind {
	case model.OpInstall:
		logger.Info(fmt.Sprintf("Installing %s %s", pv.PackageName, pv.Version.String()))

		archivePath := filepath.Join(cfg.Settings.CacheDir, fmt.Sprintf("%s-%s%s", pv.PackageName, pv.Version.Normalize().String(), filepath.Ext(pv.DownloadURL)))
		if err := downloader.Download(ctx, pv.DownloadURL, archivePath); err != nil {
			return err
		}
		if err := extractor.Extract(ctx, archivePath, dir); err != nil {
			return err
		}
		if err := registry.SetPackageVersionPath(pv.PackageName, pv.Version, dir, true); err != nil {
			return err
		}
		if errs := registry.NotifyInstalled(pv.PackageName, pv.Version, true); len(errs) > 0 {
			for _, e := range errs {
				logger.Warn(fmt.Sprintf("install hook: %v", e))
			}
		}
		if idx != nil {
			if err := idx.IndexUpdatePackageVersion(pv.PackageName, pv.Version.Normalize().String(), string(pv.Content), true, false, false); err != nil {
				logger.Warn(fmt.Sprintf("updating search index for %s %s: %v", pv.PackageName, pv.Version.String(), err))
			}
		}
		logger.Success(fmt.Sprintf("Installed %s %s", pv.PackageName, pv.Version.String()))

	case model.OpUninstall:
		logger.Info(fmt.Sprintf("Uninstalling %s %s", pv.PackageName, pv.Version.String()))

		if err := scripts.Run(ctx, filepath.Join(dir, "Uninstall.bat")); err != nil {
			return err
		}
		registry.RemoveVersion(pv.PackageName, pv.Version)
		if idx != nil {
			if err := idx.IndexUpdatePackageVersion(pv.PackageName, pv.Version.Normalize().String(), string(pv.Content), false, true, false); err != nil {
				logger.Warn(fmt.Sprintf("updating search index for %s %s: %v", pv.PackageName, pv.Version.String(), err))
			}
		}
		logger.Success(fmt.Sprintf("Uninstalled %s %s", pv.PackageName, pv.Version.String()))
	}
	return nil
}

func packageDir(cfg *config.Config, pv *model.PackageVersion) string {
	return filepath.Join(cfg.Settings.InstallDir, fmt.Sprintf("%s-%s", pv.PackageName, pv.Version.Normalize().String()))
}
