//go:build !windows

package installed_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndFindPackageVersionPath(t *testing.T) {
	r := installed.New(installed.NewFakeRegistryStore())
	require.NoError(t, r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), "C:/Tools/7zip", true))

	assert.True(t, r.IsInstalled("org.7zip.SevenZip", version.MustParse("19.0")))
	assert.Equal(t, "C:/Tools/7zip", r.FindPath("org.7zip.SevenZip", version.MustParse("19.0")))
}

func TestSetPackageVersionPathRejectsEmptyDirectory(t *testing.T) {
	r := installed.New(installed.NewFakeRegistryStore())
	err := r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), "", true)
	assert.Error(t, err)
}

func TestReadRegistryDatabaseRoundTripsThroughStore(t *testing.T) {
	store := installed.NewFakeRegistryStore()
	r := installed.New(store)
	require.NoError(t, r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), t.TempDir(), true))

	r2 := installed.New(store)
	require.NoError(t, r2.ReadRegistryDatabase())
	assert.True(t, r2.IsInstalled("org.7zip.SevenZip", version.MustParse("19.0")))
}

func TestGetNewestInstalledPicksLargestVersion(t *testing.T) {
	r := installed.New(installed.NewFakeRegistryStore())
	require.NoError(t, r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), t.TempDir(), false))
	require.NoError(t, r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("21.0"), t.TempDir(), false))

	newest := r.GetNewestInstalled("org.7zip.SevenZip")
	require.NotNil(t, newest)
	assert.Equal(t, "21.0", newest.Version.String())
}

func TestFindOwnerMatchesAncestorDirectory(t *testing.T) {
	dir := t.TempDir()
	r := installed.New(installed.NewFakeRegistryStore())
	require.NoError(t, r.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), dir, false))

	owner := r.FindOwner(dir + "/bin/7z.exe")
	require.NotNil(t, owner)
	assert.Equal(t, "org.7zip.SevenZip", owner.PackageName)
}

func TestFindFirstWithMissingDependencyDetectsGap(t *testing.T) {
	r := installed.New(installed.NewFakeRegistryStore())
	require.NoError(t, r.SetPackageVersionPath("com.example.App", version.MustParse("1.0"), t.TempDir(), false))

	deps := func(k model.PackageVersionKey) []version.Dependency {
		if k.Name == "com.example.App" {
			return []version.Dependency{{Package: "com.microsoft.DotNetRedistributable", Min: version.MustParse("4.0")}}
		}
		return nil
	}
	missing := r.FindFirstWithMissingDependency(deps)
	require.NotNil(t, missing)
	assert.Equal(t, "com.example.App", missing.PackageName)
}
