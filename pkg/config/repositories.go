package config

import (
	"sort"
	"strconv"

	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// reposKeyPath is the sub-tree the repository URL list is persisted
// under, a sibling of installed's packagesKeyPath under the same
// Software\Npackd\Npackd root.
const reposKeyPath = `Software\Npackd\Npackd\Reps`

const valueURL = "URL"

// RepositoryStore persists the ordered list of repository URLs a catalogue
// refresh fetches, to Software\Npackd\Npackd\Reps\<i>\URL. It reuses
// installed.RegistryStore rather than a second registry abstraction — the
// same enumerate/read/write/delete primitive, rooted at a different
// sub-tree. There is no separate "Count" value: the list's length is
// len(SubKeys()), since RegistryStore only carries string values and a
// redundant DWORD would just be another thing to keep in sync.
type RepositoryStore struct {
	store installed.RegistryStore
}

// NewRepositoryStore wraps an arbitrary RegistryStore as a RepositoryStore,
// for tests that want to inject their own fake.
func NewRepositoryStore(store installed.RegistryStore) *RepositoryStore {
	return &RepositoryStore{store: store}
}

// List returns the configured repository URLs, in index order.
func (r *RepositoryStore) List() ([]string, error) {
	subKeys, err := r.store.SubKeys()
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "listing repositories: %v", err)
	}

	indices := make([]int, 0, len(subKeys))
	bySubKey := make(map[int]string, len(subKeys))
	for _, sk := range subKeys {
		i, err := strconv.Atoi(sk)
		if err != nil {
			continue
		}
		indices = append(indices, i)
		bySubKey[i] = sk
	}
	sort.Ints(indices)

	urls := make([]string, 0, len(indices))
	for _, i := range indices {
		values, ok, err := r.store.ReadValues(bySubKey[i])
		if err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "reading repository %d: %v", i, err)
		}
		if !ok {
			continue
		}
		urls = append(urls, values[valueURL])
	}
	return urls, nil
}

// Add appends url to the repository list, assigning it the next free
// index.
func (r *RepositoryStore) Add(url string) error {
	urls, err := r.List()
	if err != nil {
		return err
	}
	for _, existing := range urls {
		if existing == url {
			return nil
		}
	}
	urls = append(urls, url)
	return r.save(urls)
}

// Remove deletes url from the repository list, if present, and reindexes
// the remainder to keep the sub-key numbering contiguous from 0.
func (r *RepositoryStore) Remove(url string) error {
	urls, err := r.List()
	if err != nil {
		return err
	}
	kept := urls[:0:0]
	for _, existing := range urls {
		if existing != url {
			kept = append(kept, existing)
		}
	}
	return r.save(kept)
}

// Count returns the number of configured repositories.
func (r *RepositoryStore) Count() (int, error) {
	urls, err := r.List()
	if err != nil {
		return 0, err
	}
	return len(urls), nil
}

func (r *RepositoryStore) save(urls []string) error {
	existing, err := r.store.SubKeys()
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "listing repositories: %v", err)
	}
	for _, sk := range existing {
		if err := r.store.DeleteSubKey(sk); err != nil {
			return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "removing repository %s: %v", sk, err)
		}
	}
	for i, url := range urls {
		subKey := strconv.Itoa(i)
		if err := r.store.WriteValues(subKey, map[string]string{valueURL: url}); err != nil {
			return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "writing repository %d: %v", i, err)
		}
	}
	return nil
}
