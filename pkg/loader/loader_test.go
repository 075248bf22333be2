package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/stretchr/testify/require"
)

const otherRepo = `<?xml version="1.0"?>
<root spec-version="3.0">
  <license name="GPL" title="GNU GPL"/>
  <package name="org.videolan.VLC">
    <title>VLC media player</title>
  </package>
  <version package="org.videolan.VLC" name="3.0">
    <url>https://example.com/vlc.exe</url>
  </version>
</root>`

// TestLoadMergesConcurrentFetchesDeterministically fetches several
// repositories in parallel (bounded by maxConcurrent) and checks that the
// merge order, and so the aggregate key, depends only on URL order, not on
// which fetch happens to finish first.
func TestLoadMergesConcurrentFetchesDeterministically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a" {
			_, _ = w.Write([]byte(sampleRepo))
			return
		}
		_, _ = w.Write([]byte(otherRepo))
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b"}

	f := loader.NewFetcher()
	result, err := loader.Load(context.Background(), f, urls, 1, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.AggregateKey)
	firstKey := result.AggregateKey

	result2, err := loader.Load(context.Background(), f, urls, 8, nil)
	require.NoError(t, err)
	require.Equal(t, firstKey, result2.AggregateKey)

	names := map[string]bool{}
	for _, p := range result2.Packages {
		names[p.Name] = true
	}
	require.True(t, names["org.7zip.SevenZip"])
	require.True(t, names["org.videolan.VLC"])
}

// TestLoadZeroMaxConcurrentFallsBackToOne makes sure an unset/invalid
// concurrency setting still fetches successfully rather than deadlocking
// the semaphore.
func TestLoadZeroMaxConcurrentFallsBackToOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRepo))
	}))
	defer srv.Close()

	f := loader.NewFetcher()
	result, err := loader.Load(context.Background(), f, []string{srv.URL}, 0, nil)
	require.NoError(t, err)
	require.Len(t, result.Versions, 1)
}
