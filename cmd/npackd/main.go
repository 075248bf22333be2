package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/npackd/npackd-go/internal/cli"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	noColor      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(npkgerrors.Code(err)))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "npackd",
		Short: "A package manager for Windows",
		Long: `npackd is a package manager for Windows:
- refresh: reload repositories and reconcile detected packages
- search, list: inspect the local catalogue and what is installed
- install, uninstall: apply a plan against one package
- config, repo: manage settings and repository URLs`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.OutputFormat = &outputFormat

	cmd.AddCommand(
		cli.NewRefreshCmd(),
		cli.NewSearchCmd(),
		cli.NewListCmd(),
		cli.NewInstallCmd(),
		cli.NewUninstallCmd(),
		cli.NewPackageCmd(),
		cli.NewConfigCmd(),
		cli.NewRepoCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
