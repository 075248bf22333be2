package model

import "github.com/npackd/npackd-go/pkg/version"

// InstalledPackageVersion records that a (package, version) is present on
// the machine, grounded on the teacher's InstalledManagerImpl record shape
// (pkg/artifact/database/installed.go) but keyed by (name, version) rather
// than by name alone.
type InstalledPackageVersion struct {
	PackageName string
	Version version.Version

	// Directory is the installation directory. Empty means "detected but
	// no directory" (e.g. an OS feature with no on-disk root).
	Directory string

	// External is true iff this record was discovered by a third-party
	// detector rather than this tool's own install command.
	External bool

	// DetectionInfo is a prefix->value map populated by whichever detector
	// produced this record (e.g. a third-party PM's detectionInfoPrefix).
	DetectionInfo map[string]string

	// DependencyMissing is set by find_first_with_missing_dependency's
	// transitive check.
	DependencyMissing bool
}

// Key returns the (name, version) identity used as the registry's map key.
func (ip *InstalledPackageVersion) Key() PackageVersionKey {
	return PackageVersionKey{Name: ip.PackageName, Version: ip.Version.Normalize().String()}
}

// Clone returns an owned deep copy, handed out by every InstalledPackages
// lookup so callers receive freshly allocated copies they own rather than
// aliases into the registry's internal state.
func (ip *InstalledPackageVersion) Clone() *InstalledPackageVersion {
	out := *ip
	if ip.DetectionInfo != nil {
		out.DetectionInfo = make(map[string]string, len(ip.DetectionInfo))
		for k, v := range ip.DetectionInfo {
			out.DetectionInfo[k] = v
		}
	}
	return &out
}
