package searchindex_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/npackd/npackd-go/pkg/searchindex"
)

func openTestStore(t *testing.T) *searchindex.Store {
	t.Helper()
	s, err := searchindex.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEnsureValidRebuildsOnSHA1Mismatch(t *testing.T) {
	s := openTestStore(t)

	rebuilt, err := s.EnsureValid("abc123")
	require.NoError(t, err)
	require.True(t, rebuilt, "first call always rebuilds from the empty stored SHA-1")

	require.NoError(t, s.IndexPackage("org.example.Foo", "Foo", "a tool", false, false))

	rebuilt, err = s.EnsureValid("abc123")
	require.NoError(t, err)
	require.False(t, rebuilt, "matching SHA-1 keeps existing documents")

	res, err := s.Search(searchindex.Query{Type: searchindex.DocPackage})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)

	rebuilt, err = s.EnsureValid("def456")
	require.NoError(t, err)
	require.True(t, rebuilt, "changed SHA-1 clears every document")

	res, err = s.Search(searchindex.Query{Type: searchindex.DocPackage})
	require.NoError(t, err)
	require.Empty(t, res.Hits)
}

func TestSearchMatchesKeywordAndFacet(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.IndexPackage("org.7zip.SevenZip", "7-Zip", "file archiver", true, false))
	require.NoError(t, s.IndexPackage("org.videolan.VLC", "VLC media player", "plays video", false, false))

	res, err := s.Search(searchindex.Query{Keyword: "archiver", Type: searchindex.DocPackage})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	require.Equal(t, "org.7zip.SevenZip", res.Hits[0].Name)

	res, err = s.Search(searchindex.Query{Type: searchindex.DocPackage, RequireInstalled: true})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	require.Equal(t, "org.7zip.SevenZip", res.Hits[0].Name)
}

func TestIndexUpdatePackageVersionReplacesDocument(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.IndexPackageVersion("org.7zip.SevenZip", "19.0", "<version/>", false, true, false))

	res, err := s.Search(searchindex.Query{Type: searchindex.DocPackageVersion})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)

	require.NoError(t, s.IndexUpdatePackageVersion("org.7zip.SevenZip", "19.0", "<version/>", true, false, false))

	res, err = s.Search(searchindex.Query{Type: searchindex.DocPackageVersion, RequireInstalled: true})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)

	require.NoError(t, s.IndexUpdatePackageVersion("org.7zip.SevenZip", "19.0", "", true, false, false))
	res, err = s.Search(searchindex.Query{Type: searchindex.DocPackageVersion})
	require.NoError(t, err)
	require.Empty(t, res.Hits)
}

func TestSearchOverflowReportsTruncation(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < searchindex.MaxMatches+5; i++ {
		name := fmt.Sprintf("org.example.Pkg%d", i)
		require.NoError(t, s.IndexPackage(name, "title", "desc", false, false))
	}

	res, err := s.Search(searchindex.Query{Type: searchindex.DocPackage})
	require.NoError(t, err)
	require.Len(t, res.Hits, searchindex.MaxMatches)
	require.True(t, res.Overflowed)
}
