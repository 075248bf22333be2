// Package installed is the process-wide InstalledPackages registry
// : a thread-safe map of (package, version) -> installation
// record, persisted to the Windows registry. Grounded on the teacher's
// pkg/artifact/database/installed.go for the "in-memory map backed by a
// durable store" shape, with the durable store swapped from gotya's local
// JSON/SQLite record for a live Windows registry sub-tree, since this core
// keeps no installed-package database of its own .
package installed

// RegistryStore is the minimal primitive the Windows registry wrapper
// must provide: enumerate, read and write
// string values under a fixed sub-tree. Abstracted so the registry
// reconciliation logic in Registry is testable off Windows; see
// registry_windows.go for the real implementation and registry_fake.go for
// the in-memory one used in tests and non-Windows builds.
type RegistryStore interface {
	// SubKeys lists the immediate sub-key names under the packages root.
	SubKeys() ([]string, error)
	// ReadValues reads the named values of one sub-key, or ok=false if the
	// sub-key does not exist.
	ReadValues(subKey string) (values map[string]string, ok bool, err error)
	// WriteValues creates (or replaces) a sub-key with the given values.
	WriteValues(subKey string, values map[string]string) error
	// DeleteSubKey removes a sub-key and its values, no error if absent.
	DeleteSubKey(subKey string) error
}

// Registry key/value names under Software\Npackd\Npackd\Packages\<name>-<version>,
// persistence path.
const (
	valuePath = "Path"
	valueExternal = "External"
)
