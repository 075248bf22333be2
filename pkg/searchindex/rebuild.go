package searchindex

import (
	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/model"
)

// Rebuild repopulates every document from cat, used after EnsureValid
// reports the stored aggregate SHA-1 no longer matches. Each catalogued
// package gets a Tpackage document, and each of its versions a
// Tpackage_version document, mirroring the FindPackages + GetPackageVersions
// walk pkg/catalog already does for the CLI's own listing. instRegistry
// supplies the per-version Sinstalled/Supdateable facets: cat's own stored
// XML blob has no notion of what is actually installed, so each version is
// checked against the installed-packages registry directly, since
// model.PackageVersion carries no installed flag of its own.
func (s *Store) Rebuild(cat *catalog.Store, instRegistry *installed.Registry) error {
	packages, err := cat.FindPackages(catalog.FindPackagesOptions{})
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		pkgInstalled := pkg.Status == model.StatusInstalled || pkg.Status == model.StatusUpdateable
		pkgUpdateable := pkg.Status == model.StatusUpdateable
		if err := s.IndexPackage(pkg.Name, pkg.Title, pkg.Description, pkgInstalled, pkgUpdateable); err != nil {
			return err
		}

		versions, err := cat.GetPackageVersions(pkg.Name)
		if err != nil {
			return err
		}
		for _, pv := range versions {
			verInstalled := instRegistry != nil && instRegistry.Find(pv.PackageName, pv.Version) != nil
			verUpdateable := verInstalled && pv.Version.Less(versions[0].Version)
			if err := s.IndexPackageVersion(pv.PackageName, pv.Version.Normalize().String(), string(pv.Content),
				verInstalled, !verInstalled, verUpdateable); err != nil {
				return err
			}
		}
	}
	return nil
}
