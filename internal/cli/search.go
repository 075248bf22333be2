package cli

import (
	"fmt"
	"strings"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/searchindex"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var installedOnly, updateableOnly bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the local package catalogue",
		Long: `Search the local catalogue's full-text index for packages whose
name or description matches query. Run "npackd refresh" first to populate
the index from configured repositories.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}
			return runSearch(keyword, installedOnly, updateableOnly)
		},
	}

	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only show installed packages")
	cmd.Flags().BoolVar(&updateableOnly, "updateable", false, "only show packages with an available update")

	cmd.AddCommand(newSearchCategoriesCmd())
	return cmd
}

// newSearchCategoriesCmd creates the "search categories" subcommand, the
// CLI surface for FindCategories: the same keyword/status/parent-category
// filter as the plain search, grouped by category instead of by package.
func newSearchCategoriesCmd() *cobra.Command {
	var query string
	var installedOnly bool
	var level int
	var parent int64

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and package counts matching a filter",
		Long: `List categories at the given level, with the count of packages that
match them and the same keyword/installed filter "npackd search" accepts.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSearchCategories(query, installedOnly, level, parent)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "keyword filter, same syntax as the search query")
	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only count installed packages")
	cmd.Flags().IntVar(&level, "level", 0, "category tree level (0-4)")
	cmd.Flags().Int64Var(&parent, "parent", 0, "restrict to children of this category id at level-1 (applied at levels 1 and 2 only)")

	return cmd
}

func runSearchCategories(query string, installedOnly bool, level int, parent int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalogue: %w", err)
	}
	defer func() { _ = cat.Close() }()

	opts := catalog.FindPackagesOptions{Query: query}
	if installedOnly {
		opts.FilterByStatus = true
		opts.Status = model.StatusInstalled
	}
	switch level {
	case 1:
		opts.Category0Set = true
		opts.Category0 = parent
	case 2:
		opts.Category1Set = true
		opts.Category1 = parent
	}

	counts, err := cat.FindCategories(opts, level)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(counts) == 0 {
		fmt.Println("No categories found")
		return nil
	}

	fmt.Printf("%-8s %-30s %s\n", "ID", "NAME", "COUNT")
	fmt.Println(strings.Repeat("-", 50))
	for _, cc := range counts {
		fmt.Printf("%-8d %-30s %d\n", cc.ID, cc.Name, cc.Count)
	}
	return nil
}

func runSearch(keyword string, installedOnly, updateableOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := openSearchIndex(cfg)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer func() { _ = idx.Close() }()

	result, err := idx.Search(searchindex.Query{
		Keyword:           keyword,
		Type:              searchindex.DocPackage,
		RequireInstalled:  installedOnly,
		RequireUpdateable: updateableOnly,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(result.Hits) == 0 {
		if keyword == "" {
			fmt.Println("No packages found")
		} else {
			fmt.Printf("No packages found matching %q\n", keyword)
		}
		return nil
	}

	fmt.Printf("%-40s %s\n", "PACKAGE NAME", "VERSION")
	fmt.Println(strings.Repeat("-", 60))
	for _, hit := range result.Hits {
		fmt.Printf("%-40s %s\n", hit.Name, hit.Version)
	}
	if result.Overflowed {
		fmt.Printf("\n... more than %d matches, showing the first %d\n", searchindex.MaxMatches, searchindex.MaxMatches)
	}
	return nil
}
