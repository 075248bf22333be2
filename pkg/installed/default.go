//go:build windows

package installed

// DefaultRegistryStore returns the RegistryStore the CLI wires up by
// default: the real Windows registry on Windows builds.
func DefaultRegistryStore() RegistryStore { return NewWindowsRegistryStore() }
