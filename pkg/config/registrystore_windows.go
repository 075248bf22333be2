//go:build windows

package config

import "github.com/npackd/npackd-go/pkg/installed"

// DefaultRepositoryStore returns the RepositoryStore the CLI wires up by
// default: the real Windows registry, rooted at reposKeyPath, on Windows
// builds.
func DefaultRepositoryStore() *RepositoryStore {
	return NewRepositoryStore(installed.NewWindowsRegistryStoreAt(reposKeyPath))
}
