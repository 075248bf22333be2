package detect

import "github.com/npackd/npackd-go/pkg/platform"

// viewNative returns the registry view matching this process's own
// bitness, used by detectors that only ever read the native hive (the .NET
// Framework tree is not WOW64-redirected the way JavaSoft's is).
func viewNative() platform.RegistryView {
	if platform.Is64BitProcess() {
		return platform.View64
	}
	return platform.View32
}
