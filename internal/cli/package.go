package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPackageCmd creates the package command, a single-package detail view
// on top of the same catalogue "search"/"list" read.
func NewPackageCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "package", Short: "Inspect a single catalogued package"}
	cmd.AddCommand(newPackageShowCmd())
	return cmd
}

func newPackageShowCmd() *cobra.Command {
	var showPURL, validateLicense bool

	cmd := &cobra.Command{
		Use:   "show <package>",
		Short: "Show a package's catalogue entry",
		Long: `Show a package's catalogue entry.

--purl prints its package-url (purl-spec) projection; --validate-license
reports whether its license name parses as a valid SPDX expression.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPackageShow(args[0], showPURL, validateLicense)
		},
	}

	cmd.Flags().BoolVar(&showPURL, "purl", false, "print the package's purl-spec identity")
	cmd.Flags().BoolVar(&validateLicense, "validate-license", false, "check the package's license name against SPDX")
	return cmd
}

func runPackageShow(name string, showPURL, validateLicense bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return fmt.Errorf("opening catalogue: %w", err)
	}
	defer func() { _ = cat.Close() }()

	pkg, err := cat.FindPackage(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Printf("Name:        %s\n", pkg.Name)
	fmt.Printf("Title:       %s\n", pkg.Title)
	fmt.Printf("Description: %s\n", pkg.Description)
	fmt.Printf("License:     %s\n", pkg.LicenseName)
	fmt.Printf("Category:    %s\n", pkg.DeepestCategory())

	if showPURL {
		purl, err := pkg.PURL()
		if err != nil {
			return fmt.Errorf("computing purl for %s: %w", name, err)
		}
		fmt.Printf("PURL:        %s\n", purl)
	}

	if validateLicense {
		if pkg.LicenseName == "" {
			fmt.Println("License validation: no license name recorded")
			return nil
		}
		license, err := cat.FindLicense(pkg.LicenseName)
		if err != nil {
			return fmt.Errorf("looking up license %s: %w", pkg.LicenseName, err)
		}
		if license.LooksLikeSPDXIdentifier() {
			fmt.Printf("License validation: %q is a valid SPDX identifier\n", license.Name)
		} else {
			fmt.Printf("License validation: %q does not parse as an SPDX identifier (may be a free-form name)\n", license.Name)
		}
	}
	return nil
}
