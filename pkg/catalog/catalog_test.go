package catalog_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/version"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndFindPackageRoundTrips(t *testing.T) {
	s := openTestStore(t)
	pkg := &model.Package{
		Name:        "org.7zip.SevenZip",
		Title:       "7-Zip",
		Description: "File archiver",
		Categories:  [5]string{"Utilities", "Archivers"},
	}
	require.NoError(t, s.SavePackage(pkg))

	found, err := s.FindPackage("org.7zip.SevenZip")
	require.NoError(t, err)
	require.Equal(t, "7-Zip", found.Title)
	require.Equal(t, "Archivers", found.DeepestCategory())
}

func TestFindPackagesFiltersByKeyword(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SavePackage(&model.Package{Name: "org.7zip.SevenZip", Title: "7-Zip", Description: "archiver"}))
	require.NoError(t, s.SavePackage(&model.Package{Name: "org.videolan.VLC", Title: "VLC media player", Description: "player"}))

	results, err := s.FindPackages(catalog.FindPackagesOptions{Query: "archiver"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "org.7zip.SevenZip", results[0].Name)
}

func TestUpdateStatusDerivesInstalledAndUpdateable(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SavePackage(&model.Package{Name: "org.7zip.SevenZip", Title: "7-Zip"}))
	require.NoError(t, s.SavePackageVersion(&model.PackageVersion{
		PackageName: "org.7zip.SevenZip", Version: version.MustParse("19.0"),
		Content: []byte(`<root><version package="org.7zip.SevenZip" name="19.0"></version></root>`),
	}))

	require.NoError(t, s.UpdateStatus("org.7zip.SevenZip", []version.Version{version.MustParse("19.0")}))
	p, err := s.FindPackage("org.7zip.SevenZip")
	require.NoError(t, err)
	require.Equal(t, model.StatusInstalled, p.Status)

	require.NoError(t, s.SavePackageVersion(&model.PackageVersion{
		PackageName: "org.7zip.SevenZip", Version: version.MustParse("21.0"),
		Content: []byte(`<root><version package="org.7zip.SevenZip" name="21.0"></version></root>`),
	}))
	require.NoError(t, s.UpdateStatus("org.7zip.SevenZip", []version.Version{version.MustParse("19.0")}))
	p, err = s.FindPackage("org.7zip.SevenZip")
	require.NoError(t, err)
	require.Equal(t, model.StatusUpdateable, p.Status)
}

func TestDeleteOrphanPackagesRemovesVersionlessPackages(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SavePackage(&model.Package{Name: "com.example.Orphan", Title: "Orphan"}))
	require.NoError(t, s.DeleteOrphanPackages())

	_, err := s.FindPackage("com.example.Orphan")
	require.Error(t, err)
}

func TestSavePackageRejectsInvalidIconURL(t *testing.T) {
	s := openTestStore(t)
	err := s.SavePackage(&model.Package{Name: "org.7zip.SevenZip", IconURL: "not-a-url"})
	require.Error(t, err)

	_, findErr := s.FindPackage("org.7zip.SevenZip")
	require.Error(t, findErr)
}

func TestSavePackageVersionRejectsInvalidMSIGUID(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SavePackage(&model.Package{Name: "org.7zip.SevenZip", Title: "7-Zip"}))

	err := s.SavePackageVersion(&model.PackageVersion{
		PackageName: "org.7zip.SevenZip", Version: version.MustParse("19.0"),
		MSIGUID: "{too-short}",
		Content: []byte(`<root><version package="org.7zip.SevenZip" name="19.0"></version></root>`),
	})
	require.Error(t, err)
}

func TestFindCategoriesAppliesSameFilterAsFindPackages(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SavePackage(&model.Package{
		Name: "org.7zip.SevenZip", Title: "7-Zip", Description: "archiver",
		Categories: [5]string{"Utilities", "Archivers"},
	}))
	require.NoError(t, s.SavePackage(&model.Package{
		Name: "org.videolan.VLC", Title: "VLC media player", Description: "player",
		Categories: [5]string{"Multimedia", "Players"},
	}))
	require.NoError(t, s.SavePackage(&model.Package{
		Name: "org.7zip.Lite", Title: "7-Zip Lite", Description: "archiver",
		Categories: [5]string{"Utilities", "Archivers"},
	}))

	all, err := s.FindCategories(catalog.FindPackagesOptions{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := s.FindCategories(catalog.FindPackagesOptions{Query: "archiver"}, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Utilities", filtered[0].Name)
	require.Equal(t, 2, filtered[0].Count)

	none, err := s.FindCategories(catalog.FindPackagesOptions{Query: "nonexistent"}, 0)
	require.NoError(t, err)
	require.Empty(t, none)
}
