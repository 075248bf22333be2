package cli

import (
	"fmt"

	"github.com/npackd/npackd-go/pkg/config"
	"github.com/spf13/cobra"
)

// NewRepoCmd creates the repo command and its list/add/remove
// subcommands, operating on the registry-backed repository URL list.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage configured repository URLs",
	}

	cmd.AddCommand(newRepoListCmd(), newRepoAddCmd(), newRepoRemoveCmd())
	return cmd
}

func newRepoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured repository URLs",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			urls, err := config.DefaultRepositoryStore().List()
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				fmt.Println("No repositories configured")
				return nil
			}
			for _, url := range urls {
				fmt.Println(url)
			}
			return nil
		},
	}
}

func newRepoAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Add a repository URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			if err := config.DefaultRepositoryStore().Add(args[0]); err != nil {
				return err
			}
			fmt.Printf("Added %s\n", args[0])
			return nil
		},
	}
}

func newRepoRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url>",
		Short: "Remove a repository URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			if err := config.DefaultRepositoryStore().Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		},
	}
}
