//go:build windows

package installed

import (
	"golang.org/x/sys/windows/registry"

	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// packagesKeyPath is the sub-tree every installed record is persisted
// under.
const packagesKeyPath = `Software\Npackd\Npackd\Packages`

// WindowsRegistryStore is the real RegistryStore, backed by
// golang.org/x/sys/windows/registry, grounded on the OpenKey/ReadValue
// idiom other_examples/windowsadmins-cimian's status.go uses against
// registry.LOCAL_MACHINE. root is the sub-tree it reads and writes under,
// so the same implementation backs both the installed-packages registry
// (root packagesKeyPath) and pkg/config's repository-URL list (a sibling
// "Reps" root) without a second copy of the OpenKey/ReadValue plumbing.
type WindowsRegistryStore struct {
	root string
}

// NewWindowsRegistryStore returns the production RegistryStore for the
// installed-packages sub-tree.
func NewWindowsRegistryStore() *WindowsRegistryStore {
	return &WindowsRegistryStore{root: packagesKeyPath}
}

// NewWindowsRegistryStoreAt returns a RegistryStore rooted at an arbitrary
// HKEY_LOCAL_MACHINE sub-tree, for callers outside pkg/installed that need
// the same enumerate/read/write/delete primitive against a different root.
func NewWindowsRegistryStoreAt(root string) *WindowsRegistryStore {
	return &WindowsRegistryStore{root: root}
}

func (s WindowsRegistryStore) SubKeys() ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, s.root, registry.READ)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, nil
		}
		return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return names, nil
}

func (s WindowsRegistryStore) ReadValues(subKey string) (map[string]string, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, s.root+`\`+subKey, registry.READ)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, false, nil
		}
		return nil, false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, false, npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	values := make(map[string]string, len(names))
	for _, name := range names {
		v, _, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		values[name] = v
	}
	return values, true, nil
}

func (s WindowsRegistryStore) WriteValues(subKey string, values map[string]string) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, s.root+`\`+subKey, registry.WRITE)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	defer k.Close()

	for name, v := range values {
		if err := k.SetStringValue(name, v); err != nil {
			return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
		}
	}
	return nil
}

func (s WindowsRegistryStore) DeleteSubKey(subKey string) error {
	err := registry.DeleteKey(registry.LOCAL_MACHINE, s.root+`\`+subKey)
	if err != nil && err != registry.ErrNotExist {
		return npkgerrors.Wrapf(npkgerrors.ErrRegistryError, "%v", err)
	}
	return nil
}
