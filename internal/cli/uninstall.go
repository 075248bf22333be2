package cli

import (
	"context"
	"fmt"

	"github.com/npackd/npackd-go/pkg/planner"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <package>",
		Short: "Uninstall a package",
		Long:  "Uninstall a package's currently installed version, without cascading to its dependents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd.Context(), args[0])
		},
	}
}

func runUninstall(ctx context.Context, pkg string) error {
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

	ops, err := planner.New(cat, registry).PlanUninstall(pkg)
	if err != nil {
		return fmt.Errorf("planning uninstall of %s: %w", pkg, err)
	}

	idx, err := openSearchIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	return executePlan(ctx, cfg, cat, registry, idx, ops)
}
