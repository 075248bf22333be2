package config

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryStoreAddListRemove(t *testing.T) {
	store := NewRepositoryStore(installed.NewFakeRegistryStore())

	require.NoError(t, store.Add("https://example.test/repo1.xml"))
	require.NoError(t, store.Add("https://example.test/repo2.xml"))

	urls, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/repo1.xml", "https://example.test/repo2.xml"}, urls)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Remove("https://example.test/repo1.xml"))
	urls, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/repo2.xml"}, urls)
}

func TestRepositoryStoreAddIsIdempotent(t *testing.T) {
	store := NewRepositoryStore(installed.NewFakeRegistryStore())

	require.NoError(t, store.Add("https://example.test/repo.xml"))
	require.NoError(t, store.Add("https://example.test/repo.xml"))

	urls, err := store.List()
	require.NoError(t, err)
	assert.Len(t, urls, 1)
}

func TestRepositoryStoreRemoveReindexesContiguously(t *testing.T) {
	store := NewRepositoryStore(installed.NewFakeRegistryStore())

	require.NoError(t, store.Add("a"))
	require.NoError(t, store.Add("b"))
	require.NoError(t, store.Add("c"))
	require.NoError(t, store.Remove("a"))

	urls, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, urls)
}

func TestRepositoryStoreRemoveMissingIsNoop(t *testing.T) {
	store := NewRepositoryStore(installed.NewFakeRegistryStore())
	require.NoError(t, store.Add("a"))

	require.NoError(t, store.Remove("does-not-exist"))

	urls, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, urls)
}
