package planner_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/planner"
	"github.com/npackd/npackd-go/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	versions map[string][]model.PackageVersion
}

func (f *fakeCatalog) GetPackageVersions(pkg string) ([]model.PackageVersion, error) {
	return f.versions[pkg], nil
}

type fakeInstalled struct {
	records []*model.InstalledPackageVersion
}

func (f *fakeInstalled) GetAll() []*model.InstalledPackageVersion { return f.records }

func installedRecord(pkg, v string) *model.InstalledPackageVersion {
	return &model.InstalledPackageVersion{PackageName: pkg, Version: version.MustParse(v)}
}

func pv(pkg, v, url string, deps ...version.Dependency) model.PackageVersion {
	return model.PackageVersion{PackageName: pkg, Version: version.MustParse(v), DownloadURL: url, Dependencies: deps}
}

func TestPlanUpdatesSimpleReplacementIsExactlyTwoOps(t *testing.T) {
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"org.7zip.SevenZip": {pv("org.7zip.SevenZip", "21.0", "https://example.test/7z21.exe"), pv("org.7zip.SevenZip", "19.0", "https://example.test/7z19.exe")},
	}}
	inst := &fakeInstalled{records: []*model.InstalledPackageVersion{installedRecord("org.7zip.SevenZip", "19.0")}}

	p := planner.New(cat, inst)
	ops, err := p.PlanUpdates([]string{"org.7zip.SevenZip"})
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, model.OpUninstall, ops[0].Kind)
	assert.Equal(t, "19.0", ops[0].PackageVersion.Version.String())
	assert.Equal(t, model.OpInstall, ops[1].Kind)
	assert.Equal(t, "21.0", ops[1].PackageVersion.Version.String())
}

func TestPlanUpdatesPullsInNewDependencyBeforeInstall(t *testing.T) {
	dep := version.Dependency{Package: "com.microsoft.DotNetRedistributable", Min: version.MustParse("4.0")}
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"com.example.App":                  {pv("com.example.App", "2.0", "https://example.test/app2.exe", dep), pv("com.example.App", "1.0", "https://example.test/app1.exe")},
		"com.microsoft.DotNetRedistributable": {pv("com.microsoft.DotNetRedistributable", "4.0", "https://example.test/net40.exe")},
	}}
	inst := &fakeInstalled{records: []*model.InstalledPackageVersion{installedRecord("com.example.App", "1.0")}}

	p := planner.New(cat, inst)
	ops, err := p.PlanUpdates([]string{"com.example.App"})
	require.NoError(t, err)

	// the pairing attempt pulls in a third operation (the new dependency),
	// so it is deferred to the install-then-uninstall phase instead of the
	// exactly-two-operations fast path.
	require.Len(t, ops, 3)
	assert.Equal(t, "com.microsoft.DotNetRedistributable", ops[0].PackageVersion.PackageName)
	assert.Equal(t, model.OpInstall, ops[0].Kind)
	assert.Equal(t, "com.example.App", ops[1].PackageVersion.PackageName)
	assert.Equal(t, model.OpInstall, ops[1].Kind)
	assert.Equal(t, model.OpUninstall, ops[2].Kind)
}

func TestPlanUpdatesRejectsAlreadyNewest(t *testing.T) {
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"org.7zip.SevenZip": {pv("org.7zip.SevenZip", "19.0", "https://example.test/7z19.exe")},
	}}
	inst := &fakeInstalled{records: []*model.InstalledPackageVersion{installedRecord("org.7zip.SevenZip", "19.0")}}

	p := planner.New(cat, inst)
	_, err := p.PlanUpdates([]string{"org.7zip.SevenZip"})
	assert.Error(t, err)
}

func TestPlanInstallOfFreshPackagePullsInDependency(t *testing.T) {
	dep := version.Dependency{Package: "com.microsoft.DotNetRedistributable", Min: version.MustParse("4.0")}
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"com.example.App":                     {pv("com.example.App", "2.0", "https://example.test/app2.exe", dep)},
		"com.microsoft.DotNetRedistributable": {pv("com.microsoft.DotNetRedistributable", "4.0", "https://example.test/net40.exe")},
	}}
	inst := &fakeInstalled{}

	p := planner.New(cat, inst)
	ops, err := p.PlanInstall("com.example.App")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "com.microsoft.DotNetRedistributable", ops[0].PackageVersion.PackageName)
	assert.Equal(t, model.OpInstall, ops[0].Kind)
	assert.Equal(t, "com.example.App", ops[1].PackageVersion.PackageName)
}

func TestPlanUninstallOfInstalledPackage(t *testing.T) {
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"org.7zip.SevenZip": {pv("org.7zip.SevenZip", "19.0", "https://example.test/7z19.exe")},
	}}
	inst := &fakeInstalled{records: []*model.InstalledPackageVersion{installedRecord("org.7zip.SevenZip", "19.0")}}

	p := planner.New(cat, inst)
	ops, err := p.PlanUninstall("org.7zip.SevenZip")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, model.OpUninstall, ops[0].Kind)
}

func TestPlanUninstallOfMissingPackageFails(t *testing.T) {
	cat := &fakeCatalog{}
	inst := &fakeInstalled{}

	p := planner.New(cat, inst)
	_, err := p.PlanUninstall("com.missing.Thing")
	assert.Error(t, err)
}

func TestPlanUpdatesRejectsUnresolvableDependency(t *testing.T) {
	dep := version.Dependency{Package: "com.missing.Thing", Min: version.MustParse("1.0")}
	cat := &fakeCatalog{versions: map[string][]model.PackageVersion{
		"com.example.App": {pv("com.example.App", "2.0", "https://example.test/app2.exe", dep), pv("com.example.App", "1.0", "https://example.test/app1.exe")},
	}}
	inst := &fakeInstalled{records: []*model.InstalledPackageVersion{installedRecord("com.example.App", "1.0")}}

	p := planner.New(cat, inst)
	_, err := p.PlanUpdates([]string{"com.example.App"})
	assert.Error(t, err)
}
