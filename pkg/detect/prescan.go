package detect

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/npackd/npackd-go/pkg/version"
)

const (
	npackdKeyPath     = `Software\Npackd\Npackd`
	pre1_15ValueName  = "Pre1_15DirScanned"
)

// preScanDetector runs exactly once per install, on the first refresh after
// an upgrade from a pre-1.15 installation that kept no registry database of
// its own: every <pkg>-<ver> directory directly under the install root is
// taken as an installed record.
type preScanDetector struct{}

func (preScanDetector) Name() string { return "pre-1.15-dir-scan" }

func (d preScanDetector) Run(ctx context.Context, s *Session) error {
	done, _, err := s.API.RegistryDWORDValue(npackdKeyPath, pre1_15ValueName)
	if err != nil {
		return err
	}
	if done == 1 {
		return nil
	}

	if s.InstallRoot != "" {
		entries, err := os.ReadDir(s.InstallRoot)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			pkg, v, ok := splitPkgVersionDirName(e.Name())
			if !ok {
				continue
			}
			dir := filepath.Join(s.InstallRoot, e.Name())
			s.Installed.SetPackageVersionPath(pkg, v, dir, true)
		}
	}

	return s.API.SetRegistryDWORDValue(npackdKeyPath, pre1_15ValueName, 1)
}

// splitPkgVersionDirName decodes a "<pkg>-<ver>" directory name, splitting
// on the last '-' the same way the installed registry's own sub-key
// encoding does.
func splitPkgVersionDirName(name string) (pkg string, v version.Version, ok bool) {
	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return "", version.Version{}, false
	}
	pkg = name[:idx]
	ver, err := version.Parse(name[idx+1:])
	if err != nil {
		return "", version.Version{}, false
	}
	return pkg, ver, true
}
