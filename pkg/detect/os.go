package detect

import (
	"context"
	"fmt"

	"github.com/npackd/npackd-go/pkg/platform"
	"github.com/npackd/npackd-go/pkg/version"
)

// osDetector registers the two synthetic OS packages every catalogue
// bootstraps: com.microsoft.Windows at the host's detected version, and
// whichever of Windows32/Windows64 matches this process's own bitness.
type osDetector struct{}

func (osDetector) Name() string { return "os" }

func (d osDetector) Run(ctx context.Context, s *Session) error {
	v, err := s.API.OSVersion()
	if err != nil {
		return err
	}
	ver, err := version.Parse(fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build))
	if err != nil {
		return err
	}

	pkg := "com.microsoft.Windows"
	s.Installed.SetDetected(pkg, ver, "", nil)

	bitness := platform.Windows32
	if platform.Is64BitProcess() {
		bitness = platform.Windows64
	}
	s.Installed.SetDetected(bitness, ver, "", nil)

	return nil
}
