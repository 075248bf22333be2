//go:build !windows

package config

import "github.com/npackd/npackd-go/pkg/installed"

// DefaultRepositoryStore returns the RepositoryStore the CLI wires up by
// default. Off Windows there is no live registry to persist to, so this
// falls back to the in-memory fake used by tests.
func DefaultRepositoryStore() *RepositoryStore {
	return NewRepositoryStore(installed.NewFakeRegistryStore())
}
