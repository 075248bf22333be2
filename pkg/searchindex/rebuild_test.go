package searchindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/searchindex"
	"github.com/npackd/npackd-go/pkg/version"
)

func TestRebuildDerivesVersionFacetsFromInstalledRegistry(t *testing.T) {
	cat, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })

	require.NoError(t, cat.SavePackage(&model.Package{Name: "org.7zip.SevenZip", Title: "7-Zip"}))
	require.NoError(t, cat.SavePackageVersion(&model.PackageVersion{
		PackageName: "org.7zip.SevenZip", Version: version.MustParse("19.0"),
		Content: []byte(`<root><version package="org.7zip.SevenZip" name="19.0"></version></root>`),
	}))
	require.NoError(t, cat.SavePackageVersion(&model.PackageVersion{
		PackageName: "org.7zip.SevenZip", Version: version.MustParse("21.0"),
		Content: []byte(`<root><version package="org.7zip.SevenZip" name="21.0"></version></root>`),
	}))

	reg := installed.New(installed.NewFakeRegistryStore())
	require.NoError(t, reg.SetPackageVersionPath("org.7zip.SevenZip", version.MustParse("19.0"), `C:\Apps\7zip-19.0`, true))

	idx := openTestStore(t)
	require.NoError(t, idx.Rebuild(cat, reg))

	installedHits, err := idx.Search(searchindex.Query{Type: searchindex.DocPackageVersion, RequireInstalled: true})
	require.NoError(t, err)
	require.Len(t, installedHits.Hits, 1)
	require.Equal(t, "19.0", installedHits.Hits[0].Version)

	updateableHits, err := idx.Search(searchindex.Query{Type: searchindex.DocPackageVersion, RequireUpdateable: true})
	require.NoError(t, err)
	require.Len(t, updateableHits.Hits, 1)
	require.Equal(t, "19.0", updateableHits.Hits[0].Version)
}
