// Package winapi abstracts the Win32 surface the detection pipeline reads
// from — OS version, registry sub-trees under both word-size views, MSI
// product enumeration, and DLL file versions — behind one interface so
// pkg/detect's sequencing and reconciliation logic is testable off Windows.
// Grounded on the teacher's own interface-over-implementation style
// (pkg/download.Manager, pkg/cache.Manager): a thin interface with a real
// golang.org/x/sys/windows-backed implementation and an in-memory fake.
package winapi

import "github.com/npackd/npackd-go/pkg/platform"

// OSVersion is the (major, minor, build) triple GetVersionEx reports.
type OSVersion struct {
	Major, Minor, Build int
}

// MSIProduct is one row of the Windows Installer product table.
type MSIProduct struct {
	ProductCode     string
	InstallLocation string
}

// WinAPI is the full surface pkg/detect's steps call into.
type WinAPI interface {
	// OSVersion reads the running host's version triple.
	OSVersion() (OSVersion, error)

	// RegistrySubKeys lists the immediate sub-key names under path in
	// HKEY_LOCAL_MACHINE, viewed through the given word-size redirection.
	RegistrySubKeys(view platform.RegistryView, path string) ([]string, error)
	// RegistryStringValue reads one REG_SZ value, ok=false if absent.
	RegistryStringValue(view platform.RegistryView, path, name string) (value string, ok bool, err error)
	// RegistryDWORDValue reads one REG_DWORD value, ok=false if absent.
	RegistryDWORDValue(path, name string) (value uint32, ok bool, err error)
	// SetRegistryDWORDValue writes one REG_DWORD value under HKLM.
	SetRegistryDWORDValue(path, name string, value uint32) error

	// MSIProducts lists every product Windows Installer currently
	// considers installed.
	MSIProducts() ([]MSIProduct, error)

	// FileVersion reads a PE file's VS_FIXEDFILEINFO version string
	// ("major.minor.build.revision"), ok=false if the file is absent or
	// carries no version resource.
	FileVersion(path string) (version string, ok bool, err error)

	// SetSystemEnv sets a system-scope environment variable and
	// broadcasts WM_SETTINGCHANGE so running processes pick it up.
	SetSystemEnv(name, value string) error
}
