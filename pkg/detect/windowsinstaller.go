package detect

import (
	"context"
	"path/filepath"

	"github.com/npackd/npackd-go/pkg/version"
)

// windowsInstallerFiles lists the system DLLs step 6 reads file versions
// from, mapped to the catalogue package each one's version is registered
// under.
var windowsInstallerFiles = map[string]string{
	"msi.dll":    "com.microsoft.WindowsInstaller",
	"msxml.dll":  "com.microsoft.MSXML",
	"msxml2.dll": "com.microsoft.MSXML2",
	"msxml3.dll": "com.microsoft.MSXML3",
	"msxml4.dll": "com.microsoft.MSXML4",
	"msxml5.dll": "com.microsoft.MSXML5",
	"msxml6.dll": "com.microsoft.MSXML6",
}

// windowsInstallerDetector reads Windows Installer's and MSXML's own DLL
// file versions and registers each non-zero one. msxml3.dll carries a
// well-known quirk at the source of this detector: its reported version
// gets a leading "3" prepended before registration, presumably to
// distinguish it from msxml.dll's own version numbering — preserved here
// rather than corrected.
type windowsInstallerDetector struct{}

func (windowsInstallerDetector) Name() string { return "windows-installer-msxml" }

func (d windowsInstallerDetector) Run(ctx context.Context, s *Session) error {
	system32 := filepath.Join(s.WindowsDir, "System32")
	for file, pkg := range windowsInstallerFiles {
		raw, ok, err := s.API.FileVersion(filepath.Join(system32, file))
		if err != nil {
			return err
		}
		if !ok || raw == "" {
			continue
		}
		if file == "msxml3.dll" {
			raw = "3." + raw
		}
		v, err := version.Parse(raw)
		if err != nil {
			continue
		}
		if v.Equal(version.Zero) {
			continue
		}
		s.Installed.SetDetected(pkg, v, "", nil)
	}
	return nil
}
