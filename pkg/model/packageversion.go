package model

import (
	"sync"

	"github.com/npackd/npackd-go/pkg/version"
)

// DetectFile is one (relative-path, expected-SHA1) pair used by the
// file-hash detection probe.
type DetectFile struct {
	Path         string
	ExpectedSHA1 string
}

// PackageVersion is a specific, immutable release of a Package, identified
// by (PackageName, Version). The full XML payload is kept as an opaque
// blob and parsed on demand — see pkg/catalog's cached accessor — per
// this design's "XML documents for version payloads" note.
type PackageVersion struct {
	PackageName  string
	Version      version.Version
	DownloadURL  string
	SHA1         string
	MSIGUID      string // exactly 38 chars incl. braces when set
	Dependencies []version.Dependency
	DetectFiles  []DetectFile
	Important    bool
	Content      []byte // verbatim XML payload, persisted in PACKAGE_VERSION.CONTENT

	mu sync.Mutex // advisory per-version lock
}

// Lock acquires the advisory operation lock. The planner acquires every
// operation's lock up-front before executing, in the order the operations
// were produced, and releases them all on completion or failure.
func (pv *PackageVersion) Lock() { pv.mu.Lock() }

// Unlock releases the advisory operation lock.
func (pv *PackageVersion) Unlock() { pv.mu.Unlock() }

// TryLock attempts to acquire the lock without blocking, used by UI-facing
// "is this locked by another operation" feedback.
func (pv *PackageVersion) TryLock() bool { return pv.mu.TryLock() }

// Key returns the (name, version) identity used as a map key throughout
// the catalogue and installed-packages registry.
func (pv *PackageVersion) Key() PackageVersionKey {
	return PackageVersionKey{Name: pv.PackageName, Version: pv.Version.Normalize().String()}
}

// PackageVersionKey is the comparable identity of a PackageVersion, usable
// as a map key (version.Version itself holds a slice and is not
// comparable).
type PackageVersionKey struct {
	Name    string
	Version string
}

// ValidateMSIGUID enforces the "exactly 38 chars including braces" invariant
// when set.
func (pv *PackageVersion) ValidateMSIGUID() bool {
	return pv.MSIGUID == "" || len(pv.MSIGUID) == 38
}
