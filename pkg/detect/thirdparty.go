package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npackd/npackd-go/pkg/hook"
	"github.com/npackd/npackd-go/pkg/version"
)

// thirdPartyDetector runs every registered Tengo plugin and reconciles its
// reported installations against the registry under the five-case policy:
// a record with no directory gets one synthesised under NpackdDetected/,
// a record whose directory already belongs to another package is ignored,
// and anything tagged with a prefix but not re-reported this pass is
// removed — the prefix owns the set of records it produced.
type thirdPartyDetector struct{}

func (thirdPartyDetector) Name() string { return "third-party-pm" }

func (d thirdPartyDetector) Run(ctx context.Context, s *Session) error {
	if s.Hooks == nil {
		return nil
	}

	results := s.Hooks.RunAll()

	reported := map[string]map[string]bool{} // prefix -> set of "pkg@version"
	var firstErr error
	for _, res := range results {
		if res.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.DetectionInfoPrefix, res.Err)
		}
		keys := map[string]bool{}
		for _, rec := range res.Records {
			v, err := version.Parse(rec.Version)
			if err != nil {
				continue
			}
			keys[rec.PackageName+"@"+v.Normalize().String()] = true
			if err := d.reconcileOne(s, res.DetectionInfoPrefix, rec, v); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		reported[res.DetectionInfoPrefix] = keys
	}

	for _, rec := range s.Installed.GetAll() {
		for prefix, keys := range reported {
			if _, tagged := rec.DetectionInfo[prefix]; !tagged {
				continue
			}
			key := rec.PackageName + "@" + rec.Version.Normalize().String()
			if !keys[key] {
				s.Installed.RemoveVersion(rec.PackageName, rec.Version)
			}
		}
	}

	return firstErr
}

// reconcileOne applies the five-case policy to a single reported record.
func (thirdPartyDetector) reconcileOne(s *Session, prefix string, rec hook.DetectedRecord, v version.Version) error {
	info := map[string]string{prefix: rec.PackageName}

	if rec.Directory != "" {
		if owner := s.Installed.FindOwner(rec.Directory); owner != nil && owner.PackageName != rec.PackageName {
			return nil // case 3: directory already owned by another package
		}
		// case 4/5: directory present; persist Uninstall.bat into it if one
		// was given and isn't already there, mirroring the no-directory
		// branch below.
		existing := s.Installed.Find(rec.PackageName, v)
		if rec.UninstallScript != "" && (existing == nil || existing.DetectionInfo["uninstall-script"] != rec.UninstallScript) {
			info["uninstall-script"] = rec.UninstallScript
			uninstallPath := filepath.Join(rec.Directory, "Uninstall.bat")
			if _, err := os.Stat(uninstallPath); os.IsNotExist(err) {
				if err := os.WriteFile(uninstallPath, []byte(rec.UninstallScript), 0o755); err != nil {
					return err
				}
			}
		}
		s.Installed.SetDetected(rec.PackageName, v, rec.Directory, info)
		return nil
	}

	// case 1/2: no directory reported; synthesise one under NpackdDetected/.
	dir := filepath.Join(s.PluginDataDir, rec.PackageName+"-"+v.Normalize().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	script := rec.UninstallScript
	if script == "" {
		script = "@echo Uninstallation of this package is not supported.\r\n@exit /b 1\r\n"
	}
	uninstallPath := filepath.Join(dir, "Uninstall.bat")
	if _, err := os.Stat(uninstallPath); os.IsNotExist(err) {
		if err := os.WriteFile(uninstallPath, []byte(script), 0o755); err != nil {
			return err
		}
	}
	info["uninstall-script"] = script
	s.Installed.SetDetected(rec.PackageName, v, dir, info)
	return nil
}
