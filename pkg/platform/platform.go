// Package platform holds the handful of Windows word-size facts the
// detection pipeline (pkg/detect) needs: whether the host is 64-bit, and
// which registry views to enumerate for JRE/JDK detection. Adapted from the
// teacher's cross-platform pkg/platform/platform.go (OS/Arch normalization
// for artifact descriptors) down to the single axis this core actually
// needs, since it targets Windows only.
package platform

import "runtime"

// Well-known package names for the two word-size OS entries bootstrapped
// into every catalogue load.
const (
	Windows32 = "com.microsoft.Windows32"
	Windows64 = "com.microsoft.Windows64"
)

// Is64BitProcess reports whether this binary itself is running as a 64-bit
// process — not whether the host OS is 64-bit (see pkg/detect/winapi for
// that), mirroring the original's separate handling of "the process's
// bitness" vs. "the OS's bitness" in MSI/registry access.
func Is64BitProcess() bool {
	return runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"
}

// RegistryView identifies which Windows registry redirection view to open:
// the 32-bit software hive or the 64-bit one.
type RegistryView int

const (
	View32 RegistryView = iota
	View64
)

// ViewsForHost returns the registry views the JRE/JDK detector must
// enumerate: both views on a 64-bit host, only the native view on a
// 32-bit host.
func ViewsForHost(hostIs64Bit bool) []RegistryView {
	if hostIs64Bit {
		return []RegistryView{View32, View64}
	}
	return []RegistryView{View32}
}
