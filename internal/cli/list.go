package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List every package recorded in the installed-packages registry.

Use --name to filter by a substring of the package's reverse-DNS name.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runList(nameFilter)
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "filter packages by name (substring match)")
	return cmd
}

func runList(nameFilter string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	registry, err := openInstalled()
	if err != nil {
		return err
	}

	records := registry.GetAll()
	sort.Slice(records, func(i, j int) bool {
		if records[i].PackageName != records[j].PackageName {
			return records[i].PackageName < records[j].PackageName
		}
		return records[i].Version.Less(records[j].Version)
	})

	fmt.Printf("%-45s %-15s %s\n", "PACKAGE NAME", "VERSION", "DIRECTORY")
	fmt.Println(strings.Repeat("-", 90))

	shown := 0
	for _, rec := range records {
		if nameFilter != "" && !strings.Contains(rec.PackageName, nameFilter) {
			continue
		}
		fmt.Printf("%-45s %-15s %s\n", rec.PackageName, rec.Version.String(), rec.Directory)
		shown++
	}
	if shown == 0 {
		fmt.Println("No packages installed")
	}
	return nil
}
