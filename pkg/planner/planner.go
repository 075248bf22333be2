// Package planner turns a set of "update these packages" requests into an
// ordered, simplified list of install/uninstall operations.
// Grounded on the teacher's pkg/index/resolve.go resolver (constraint
// accumulation, cycle detection, topological ordering of dependencies) and
// pkg/orchestrator/orchestrator.go (the install-then-uninstall phase
// split), generalized from gotya's single-target dependency resolution to
// a two-phase tentative-pairing algorithm.
package planner

import (
	"fmt"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/npackd/npackd-go/pkg/version"
)

// Catalog is the subset of pkg/catalog.Store the planner reads.
type Catalog interface {
	GetPackageVersions(pkg string) ([]model.PackageVersion, error)
}

// Installed is the subset of pkg/installed.Registry the planner reads.
type Installed interface {
	GetAll() []*model.InstalledPackageVersion
}

// Planner computes install/uninstall plans against a catalogue and the
// current installed set, never mutating either — every call operates on
// an internal working copy.
type Planner struct {
	catalog   Catalog
	installed Installed
}

// New creates a Planner reading from catalog and installed.
func New(catalog Catalog, installed Installed) *Planner {
	return &Planner{catalog: catalog, installed: installed}
}

// workingSet is the planner's mutable view of "what would be installed if
// the operations produced so far actually ran", keyed by package name so
// dependency satisfaction checks can see tentative changes.
type workingSet struct {
	byPackage map[string][]version.Version
	versions  map[model.PackageVersionKey]*model.PackageVersion
}

func (p *Planner) newWorkingSet() (*workingSet, error) {
	ws := &workingSet{byPackage: map[string][]version.Version{}, versions: map[model.PackageVersionKey]*model.PackageVersion{}}
	for _, rec := range p.installed.GetAll() {
		ws.byPackage[rec.PackageName] = append(ws.byPackage[rec.PackageName], rec.Version)
	}
	return ws, nil
}

func (ws *workingSet) has(pkg string, v version.Version) bool {
	for _, existing := range ws.byPackage[pkg] {
		if existing.Equal(v) {
			return true
		}
	}
	return false
}

func (ws *workingSet) add(pv *model.PackageVersion) {
	ws.byPackage[pv.PackageName] = append(ws.byPackage[pv.PackageName], pv.Version)
	ws.versions[pv.Key()] = pv
}

func (ws *workingSet) remove(pv *model.PackageVersion) {
	versions := ws.byPackage[pv.PackageName]
	for i, v := range versions {
		if v.Equal(pv.Version) {
			ws.byPackage[pv.PackageName] = append(versions[:i], versions[i+1:]...)
			break
		}
	}
	delete(ws.versions, pv.Key())
}

func (ws *workingSet) satisfied(dep version.Dependency) bool {
	return dep.Satisfied(ws.byPackage[dep.Package])
}

// newestInstallable returns the highest-versioned catalogue entry of pkg
// that carries a download URL.
func (p *Planner) newestInstallable(pkg string) (*model.PackageVersion, error) {
	versions, err := p.catalog.GetPackageVersions(pkg)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].DownloadURL != "" {
			return &versions[i], nil
		}
	}
	return nil, npkgerrors.Wrapf(npkgerrors.ErrNoInstallable, "%s", pkg)
}

func (p *Planner) newestInstalled(pkg string) (*model.PackageVersion, error) {
	var newest *model.InstalledPackageVersion
	for _, rec := range p.installed.GetAll() {
		if rec.PackageName != pkg {
			continue
		}
		if newest == nil || newest.Version.Less(rec.Version) {
			newest = rec
		}
	}
	if newest == nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrNoInstalled, "%s", pkg)
	}
	versions, err := p.catalog.GetPackageVersions(pkg)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].Version.Equal(newest.Version) {
			return &versions[i], nil
		}
	}
	return &model.PackageVersion{PackageName: pkg, Version: newest.Version}, nil
}

// planInstallation recursively satisfies pv's dependencies from the
// working set (installing the newest catalogue match for any unsatisfied
// one), then appends pv's own install, mutating ws as it goes.
func (p *Planner) planInstallation(pv *model.PackageVersion, ws *workingSet, visiting map[model.PackageVersionKey]bool) ([]model.InstallOperation, error) {
	if ws.has(pv.PackageName, pv.Version) {
		return nil, nil // already satisfied by a prior step in this plan
	}
	key := pv.Key()
	if visiting[key] {
		return nil, fmt.Errorf("dependency cycle involving %s-%s", pv.PackageName, pv.Version)
	}
	visiting[key] = true
	defer delete(visiting, key)

	var ops []model.InstallOperation
	for _, dep := range pv.Dependencies {
		if ws.satisfied(dep) {
			continue
		}
		candidate, err := p.newestInstallable(dep.Package)
		if err != nil || !dep.Matches(candidate.Version) {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDependencyUnresolved, "%s requires %s", pv.PackageName, dep.Package)
		}
		depOps, err := p.planInstallation(candidate, ws, visiting)
		if err != nil {
			return nil, err
		}
		ops = append(ops, depOps...)
	}

	ops = append(ops, model.InstallOperation{PackageVersion: pv, Kind: model.OpInstall})
	ws.add(pv)
	return ops, nil
}

// planUninstallation removes pv from the working set. Cascading removal of
// dependents is intentionally not attempted, since the source leaves
// undone, transitive uninstall unspecified beyond "may introduce
// transitive operations" — this keeps to the single operation the
// simplify pass assumes callers can rely on.
func (p *Planner) planUninstallation(pv *model.PackageVersion, ws *workingSet) []model.InstallOperation {
	ws.remove(pv)
	return []model.InstallOperation{{PackageVersion: pv, Kind: model.OpUninstall}}
}

// PlanUpdates implements the three-phase planning algorithm for the
// given set of package names.
func (p *Planner) PlanUpdates(packages []string) ([]model.InstallOperation, error) {
	type target struct {
		old, new *model.PackageVersion
	}
	targets := make([]target, 0, len(packages))
	for _, pkg := range packages {
		newInstallable, err := p.newestInstallable(pkg)
		if err != nil {
			return nil, err
		}
		oldInstalled, err := p.newestInstalled(pkg)
		if err != nil {
			return nil, err
		}
		if oldInstalled.Version.Equal(newInstallable.Version) {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrAlreadyNewest, "%s", pkg)
		}
		targets = append(targets, target{old: oldInstalled, new: newInstallable})
	}

	ws, err := p.newWorkingSet()
	if err != nil {
		return nil, err
	}

	var final []model.InstallOperation
	var deferred []target

	// Phase 1: paired tentative replacement, accepted only if total size is
	// exactly 2 (no collateral churn).
	for _, t := range targets {
		trial, err := ws.clone()
		if err != nil {
			return nil, err
		}
		uninstallOps := p.planUninstallation(t.old, trial)
		installOps, err := p.planInstallation(t.new, trial, map[model.PackageVersionKey]bool{})
		if err != nil {
			deferred = append(deferred, t)
			continue
		}
		pair := append(uninstallOps, installOps...)
		if len(pair) == 2 {
			final = append(final, pair...)
			ws = trial
		} else {
			deferred = append(deferred, t)
		}
	}

	// Phase 2: installs first, then uninstalls, against the shared working set.
	var installs, uninstalls []model.InstallOperation
	for _, t := range deferred {
		ops, err := p.planInstallation(t.new, ws, map[model.PackageVersionKey]bool{})
		if err != nil {
			return nil, err
		}
		installs = append(installs, ops...)
	}
	for _, t := range deferred {
		uninstalls = append(uninstalls, p.planUninstallation(t.old, ws)...)
	}
	final = append(final, installs...)
	final = append(final, uninstalls...)

	// Phase 3: simplify.
	return model.Simplify(final), nil
}

// PlanInstall plans a fresh install of pkg's newest installable version,
// for a package not already tracked by any "update" request — the
// single-package entry point PlanUpdates itself has no use for, since
// PlanUpdates always anchors against an existing installed version.
func (p *Planner) PlanInstall(pkg string) ([]model.InstallOperation, error) {
	newInstallable, err := p.newestInstallable(pkg)
	if err != nil {
		return nil, err
	}
	ws, err := p.newWorkingSet()
	if err != nil {
		return nil, err
	}
	ops, err := p.planInstallation(newInstallable, ws, map[model.PackageVersionKey]bool{})
	if err != nil {
		return nil, err
	}
	return model.Simplify(ops), nil
}

// PlanUninstall plans removing pkg's currently installed version, without
// attempting to satisfy or cascade into anything that depended on it —
// the same restraint planUninstallation already documents.
func (p *Planner) PlanUninstall(pkg string) ([]model.InstallOperation, error) {
	installed, err := p.newestInstalled(pkg)
	if err != nil {
		return nil, err
	}
	ws, err := p.newWorkingSet()
	if err != nil {
		return nil, err
	}
	return p.planUninstallation(installed, ws), nil
}

func (ws *workingSet) clone() (*workingSet, error) {
	out := &workingSet{byPackage: map[string][]version.Version{}, versions: map[model.PackageVersionKey]*model.PackageVersion{}}
	for pkg, versions := range ws.byPackage {
		out.byPackage[pkg] = append([]version.Version(nil), versions...)
	}
	for k, v := range ws.versions {
		out.versions[k] = v
	}
	return out, nil
}
