//go:build !windows

package installed

// DefaultRegistryStore returns the RegistryStore the CLI wires up by
// default. Off Windows there is no live registry to reconcile against, so
// this falls back to the in-memory fake used by tests — this tool's
// detection pipeline is Windows-only regardless.
func DefaultRegistryStore() RegistryStore { return NewFakeRegistryStore() }
