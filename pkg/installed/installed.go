package installed

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/version"
)

// Registry is the process-wide InstalledPackages store: a thread-safe map
// keyed by model.PackageVersionKey, optionally persisted to a RegistryStore.
type Registry struct {
	mu sync.RWMutex
	records map[model.PackageVersionKey]*model.InstalledPackageVersion
	store RegistryStore
}

// New creates a Registry backed by store. Pass DefaultRegistryStore() for
// the platform default.
func New(store RegistryStore) *Registry {
	return &Registry{records: make(map[model.PackageVersionKey]*model.InstalledPackageVersion), store: store}
}

func keyOf(pkg string, v version.Version) model.PackageVersionKey {
	return model.PackageVersionKey{Name: pkg, Version: v.Normalize().String()}
}

// Find returns a copy of the record for (pkg, v), or nil if not installed.
func (r *Registry) Find(pkg string, v version.Version) *model.InstalledPackageVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[keyOf(pkg, v)]
	if !ok {
		return nil
	}
	return rec.Clone()
}

// FindPath is the fast path: it consults the in-memory map without
// touching the registry, matching this design's description of FindPath
// as the CLI's quick lookup.
func (r *Registry) FindPath(pkg string, v version.Version) string {
	if rec := r.Find(pkg, v); rec != nil {
		return rec.Directory
	}
	return ""
}

// IsInstalled reports whether (pkg, v) has a record.
func (r *Registry) IsInstalled(pkg string, v version.Version) bool {
	return r.Find(pkg, v) != nil
}

// SetPackageVersionPath inserts or updates a record. dir must be
// non-empty. If updateRegistry, the record is also persisted under
// Packages\<name>-<version> with External=0.
func (r *Registry) SetPackageVersionPath(pkg string, v version.Version, dir string, updateRegistry bool) error {
	if dir == "" {
		return fmt.Errorf("directory must be non-empty")
	}

	r.mu.Lock()
	r.records[keyOf(pkg, v)] = &model.InstalledPackageVersion{PackageName: pkg, Version: v, Directory: dir}
	r.mu.Unlock()

	if updateRegistry && r.store != nil {
		subKey := subKeyName(pkg, v)
		if err := r.store.WriteValues(subKey, map[string]string{valuePath: dir, valueExternal: "0"}); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops every record for pkg, regardless of version.
func (r *Registry) Remove(pkg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.records {
		if k.Name == pkg {
			delete(r.records, k)
		}
	}

	if r.store != nil {
		for _, subKey := range r.subKeysForPackageLocked(pkg) {
			_ = r.store.DeleteSubKey(subKey)
		}
	}
}

// subKeysForPackageLocked is a best-effort helper for Remove's registry
// cleanup; it does not require the lock itself but is only ever called
// while Remove already holds it, hence the name.
func (r *Registry) subKeysForPackageLocked(pkg string) []string {
	subKeys, err := r.store.SubKeys()
	if err != nil {
		return nil
	}
	var out []string
	for _, sk := range subKeys {
		if name, _, ok := decodeSubKeyName(sk); ok && name == pkg {
			out = append(out, sk)
		}
	}
	return out
}

// RemoveVersion drops a single (pkg, v) record, used by detectors that
// reconcile one version at a time (MSI products no longer present,
// third-party PM records no longer reported).
func (r *Registry) RemoveVersion(pkg string, v version.Version) {
	key := keyOf(pkg, v)
	r.mu.Lock()
	delete(r.records, key)
	r.mu.Unlock()
	if r.store != nil {
		_ = r.store.DeleteSubKey(subKeyName(pkg, v))
	}
}

// SetDetected records a detection-pipeline finding: pkg/v is present at dir,
// owned by a source other than this tool's own install command, with the
// prefix-tagged detection metadata the five-case third-party-PM
// reconciliation policy uses to tell its own records apart from others'.
func (r *Registry) SetDetected(pkg string, v version.Version, dir string, detectionInfo map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[keyOf(pkg, v)] = &model.InstalledPackageVersion{
		PackageName: pkg,
		Version: v,
		Directory: dir,
		External: true,
		DetectionInfo: detectionInfo,
	}
}

// GetAll returns copies of every installed record.
func (r *Registry) GetAll() []*model.InstalledPackageVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.InstalledPackageVersion, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out
}

// GetByPackage returns copies of every record for pkg.
func (r *Registry) GetByPackage(pkg string) []*model.InstalledPackageVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.InstalledPackageVersion
	for k, rec := range r.records {
		if k.Name == pkg {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// GetPackages returns the distinct set of package names with at least one
// installed record.
func (r *Registry) GetPackages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for k := range r.records {
		if !seen[k.Name] {
			seen[k.Name] = true
			out = append(out, k.Name)
		}
	}
	return out
}

// FindOwner returns the record whose directory is an ancestor of path on
// the filesystem, or nil if none owns it.
func (r *Registry) FindOwner(path string) *model.InstalledPackageVersion {
	clean := filepath.Clean(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Directory == "" {
			continue
		}
		dir := filepath.Clean(rec.Directory)
		if clean == dir || strings.HasPrefix(clean, dir+string(filepath.Separator)) {
			return rec.Clone()
		}
	}
	return nil
}

// subKeyName encodes (pkg, version) into the registry sub-key name, split
// on the last '-' to decode, used by ReadRegistryDatabase below.
func subKeyName(pkg string, v version.Version) string {
	return pkg + "-" + v.Normalize().String()
}

func decodeSubKeyName(name string) (pkg string, v version.Version, ok bool) {
	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return "", version.Version{}, false
	}
	pkg = name[:idx]
	ver, err := version.Parse(name[idx+1:])
	if err != nil {
		return "", version.Version{}, false
	}
	return pkg, ver, true
}

// ReadRegistryDatabase rebuilds the in-memory map from the registry
// sub-tree. Sub-key names that don't decode, and records whose directory
// no longer exists, are skipped silently.
func (r *Registry) ReadRegistryDatabase() error {
	if r.store == nil {
		return nil
	}
	subKeys, err := r.store.SubKeys()
	if err != nil {
		return err
	}

	records := make(map[model.PackageVersionKey]*model.InstalledPackageVersion)
	for _, subKey := range subKeys {
		pkg, v, ok := decodeSubKeyName(subKey)
		if !ok {
			continue
		}
		values, ok, err := r.store.ReadValues(subKey)
		if err != nil || !ok {
			continue
		}
		dir := values[valuePath]
		if dir != "" {
			if _, err := os.Stat(dir); err != nil {
				continue
			}
		}
		rec := &model.InstalledPackageVersion{
			PackageName: pkg,
			Version: v,
			Directory: dir,
			External: values[valueExternal] == "1",
		}
		records[rec.Key()] = rec
	}

	r.mu.Lock()
	r.records = records
	r.mu.Unlock()
	return nil
}

// Save flushes every in-memory record back to the registry.
func (r *Registry) Save() error {
	if r.store == nil {
		return nil
	}
	for _, rec := range r.GetAll() {
		external := "0"
		if rec.External {
			external = "1"
		}
		if err := r.store.WriteValues(subKeyName(rec.PackageName, rec.Version), map[string]string{
			valuePath: rec.Directory,
			valueExternal: external,
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetNewestInstalled returns the record with the largest version for pkg,
// or nil if none is installed.
func (r *Registry) GetNewestInstalled(pkg string) *model.InstalledPackageVersion {
	records := r.GetByPackage(pkg)
	if len(records) == 0 {
		return nil
	}
	sort.Slice(records, func(i, j int) bool { return records[j].Version.Less(records[i].Version) })
	return records[0]
}

// FindFirstWithMissingDependency returns the first record whose stored
// dependencies are not all satisfied, checked transitively using only this
// registry's own contents, or nil if every record is satisfied. deps looks
// up the dependency list for a given (package, version) key — the caller
// (planner or CLI) supplies it since Registry itself stores no dependency
// data.
func (r *Registry) FindFirstWithMissingDependency(deps func(model.PackageVersionKey) []version.Dependency) *model.InstalledPackageVersion {
	records := r.GetAll()
	installedByPackage := map[string][]version.Version{}
	for _, rec := range records {
		installedByPackage[rec.PackageName] = append(installedByPackage[rec.PackageName], rec.Version)
	}

	for _, rec := range records {
		for _, dep := range deps(rec.Key()) {
			if !dep.Satisfied(installedByPackage[dep.Package]) {
				rec.DependencyMissing = true
				return rec
			}
		}
	}
	return nil
}

// NotifyInstalled invokes every other installed package's
// .Npackd\InstallHook.bat, best-effort — errors are returned to the
// caller to log, never propagated as a failure of the install itself.
func (r *Registry) NotifyInstalled(pkg string, v version.Version, success bool) []error {
	var errs []error
	for _, rec := range r.GetAll() {
		if rec.PackageName == pkg || rec.Directory == "" {
			continue
		}
		hook := filepath.Join(rec.Directory, ".Npackd", "InstallHook.bat")
		if _, err := os.Stat(hook); err != nil {
			continue
		}
		arg := "0"
		if success {
			arg = "1"
		}
		cmd := exec.Command(hook, pkg, v.Normalize().String(), arg)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook, err))
		}
	}
	return errs
}
