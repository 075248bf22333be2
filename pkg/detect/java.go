package detect

import (
	"context"
	"os"
	"strings"

	"github.com/npackd/npackd-go/pkg/platform"
	"github.com/npackd/npackd-go/pkg/version"
)

// javaPackages maps each JavaSoft registry sub-tree to the catalogue
// package name it registers detected installations under.
var javaPackages = map[string]string{
	"Java Runtime Environment": "com.oracle.JRE",
	"Java Development Kit":     "com.oracle.JDK",
}

// javaDetector enumerates HKLM\Software\JavaSoft\{JRE,JDK} under both
// registry views on a 64-bit host, registering one record per sub-key whose
// name parses as a version and whose JavaHome directory still exists.
type javaDetector struct{}

func (javaDetector) Name() string { return "java" }

func (d javaDetector) Run(ctx context.Context, s *Session) error {
	views := platform.ViewsForHost(platform.Is64BitProcess())

	for subTree, pkg := range javaPackages {
		path := `Software\JavaSoft\` + subTree
		for _, view := range views {
			subKeys, err := s.API.RegistrySubKeys(view, path)
			if err != nil {
				return err
			}
			for _, subKey := range subKeys {
				v, ok := parseJavaVersion(subKey)
				if !ok {
					continue
				}
				home, ok, err := s.API.RegistryStringValue(view, path+`\`+subKey, "JavaHome")
				if err != nil {
					return err
				}
				if !ok || home == "" {
					continue
				}
				if _, err := os.Stat(home); err != nil {
					continue
				}
				s.Installed.SetDetected(pkg, v, home, nil)
			}
		}
	}
	return nil
}

// parseJavaVersion normalizes a JavaSoft sub-key name ("1.8.0_341") into a
// Version, rejecting names with fewer than three dot-separated parts.
func parseJavaVersion(name string) (version.Version, bool) {
	normalized := strings.ReplaceAll(name, "_", ".")
	if len(strings.Split(normalized, ".")) < 3 {
		return version.Version{}, false
	}
	v, err := version.Parse(normalized)
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}
