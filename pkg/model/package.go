// Package model holds the immutable catalogue entities — Package,
// PackageVersion, License, Category, InstalledPackageVersion and
// InstallOperation — grounded on the teacher's pkg/model/artifact.go
// (descriptor shape, Match* helpers) but carrying the spec's own fields
// (reverse-DNS identity, five-level category path, MSI GUID, detect files)
// instead of gotya's OS/Arch artifact descriptor.
package model

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/purl"
)

// Status is the derived catalogue status of a Package.
type Status int

const (
	StatusNotInstalled Status = iota
	StatusInstalled
	StatusUpdateable
)

func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "INSTALLED"
	case StatusUpdateable:
		return "UPDATEABLE"
	default:
		return "NOT_INSTALLED"
	}
}

// Package is an immutable catalogue entry identified by a fully-qualified
// reverse-DNS name.
type Package struct {
	Name string
	Title string
	URL string
	IconURL string
	Description string
	LicenseName string
	Categories [5]string // level 0..4, "" means unset at that level
	Status Status
	Repository string
}

// ShortName returns the trailing dot-segment of the reverse-DNS name, e.g.
// "Foo" for "com.example.Foo".
func (p *Package) ShortName() string {
	idx := strings.LastIndex(p.Name, ".")
	if idx < 0 {
		return p.Name
	}
	return p.Name[idx+1:]
}

// CategoryPath returns the five category strings joined with '|', the
// on-disk representation the catalogue store splits on save.
func (p *Package) CategoryPath() string {
	return strings.Join(p.Categories[:], "|")
}

// DeepestCategory returns the deepest non-empty category level, the string
// displayed to the user.
func (p *Package) DeepestCategory() string {
	for i := len(p.Categories) - 1; i >= 0; i-- {
		if p.Categories[i] != "" {
			return p.Categories[i]
		}
	}
	return ""
}

// ValidateIconURL checks the must-be-http(s)-absolute invariant.
func (p *Package) ValidateIconURL() error {
	if p.IconURL == "" {
		return nil
	}
	u, err := url.Parse(p.IconURL)
	if err != nil {
		return fmt.Errorf("icon url %q is not a valid url: %w", p.IconURL, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("icon url %q must be an absolute http(s) url", p.IconURL)
	}
	return nil
}

// PURL returns a package-url (https://github.com/package-url/purl-spec)
// representation of the package identity for interop/export, e.g.
// "pkg:generic/com.example.Foo" (name only; no @version part is added).
// The catalogue's own identity remains
// the reverse-DNS name; this is a read-only projection, grounded on
// git-pkgs-registries' re-export of github.com/git-pkgs/purl — round-tripped
// through purl.Parse to catch a malformed name before it is ever surfaced.
func (p *Package) PURL() (string, error) {
	raw := "pkg:generic/" + url.PathEscape(p.Name)
	if _, err := purl.Parse(raw); err != nil {
		return "", fmt.Errorf("package name %q does not yield a valid purl: %w", p.Name, err)
	}
	return raw, nil
}
