//go:build !windows

package winapi

import (
	"sync"

	"github.com/npackd/npackd-go/pkg/platform"
)

// Fake is an in-memory WinAPI used by tests and off-Windows builds, where
// there is no registry, no Windows Installer and no version resources to
// call into — this tool's detection pipeline is Windows-only regardless.
type Fake struct {
	mu sync.Mutex

	Version  OSVersion
	SubKeys  map[platform.RegistryView]map[string][]string
	Strings  map[platform.RegistryView]map[string]map[string]string
	DWORDs   map[string]map[string]uint32
	Products []MSIProduct
	Files    map[string]string

	EnvSets map[string]string
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		SubKeys: map[platform.RegistryView]map[string][]string{},
		Strings: map[platform.RegistryView]map[string]map[string]string{},
		DWORDs:  map[string]map[string]uint32{},
		Files:   map[string]string{},
		EnvSets: map[string]string{},
	}
}

func (f *Fake) OSVersion() (OSVersion, error) { return f.Version, nil }

func (f *Fake) RegistrySubKeys(view platform.RegistryView, path string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SubKeys[view][path], nil
}

func (f *Fake) RegistryStringValue(view platform.RegistryView, path, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.Strings[view][path]
	if !ok {
		return "", false, nil
	}
	v, ok := values[name]
	return v, ok, nil
}

func (f *Fake) RegistryDWORDValue(path, name string) (uint32, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.DWORDs[path]
	if !ok {
		return 0, false, nil
	}
	v, ok := values[name]
	return v, ok, nil
}

func (f *Fake) SetRegistryDWORDValue(path, name string, value uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DWORDs[path] == nil {
		f.DWORDs[path] = map[string]uint32{}
	}
	f.DWORDs[path][name] = value
	return nil
}

func (f *Fake) MSIProducts() ([]MSIProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MSIProduct(nil), f.Products...), nil
}

func (f *Fake) FileVersion(path string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Files[path]
	return v, ok, nil
}

func (f *Fake) SetSystemEnv(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnvSets[name] = value
	return nil
}
