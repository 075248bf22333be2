package detect

import (
	"strconv"
	"strings"

	"context"

	"github.com/npackd/npackd-go/pkg/version"
)

const dotNetNDPPath = `Software\Microsoft\NET Framework Setup\NDP`

// dotNetDetector enumerates the installed .NET Framework releases under
// NDP\v*. Each "v*" sub-key's own version source depends on its key
// version, a quirk of how the NDP tree grew across .NET releases: pre-2.0
// keys carry the version in their own name, pre-4.0 keys carry a Version
// value, and 4.0+ keys nest it one level deeper under Full\Version.
type dotNetDetector struct{}

func (dotNetDetector) Name() string { return "dotnet" }

func (d dotNetDetector) Run(ctx context.Context, s *Session) error {
	keys, err := s.API.RegistrySubKeys(viewNative(), dotNetNDPPath)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, "v") {
			continue
		}
		keyVer, ok := parseNDPKeyVersion(key)
		if !ok {
			continue
		}

		var v version.Version
		var found bool
		switch {
		case keyVer < 2.0:
			v, err = version.Parse(strings.TrimPrefix(key, "v"))
			found = err == nil
		case keyVer < 4.0:
			var val string
			val, found, err = s.API.RegistryStringValue(viewNative(), dotNetNDPPath+`\`+key, "Version")
			if found && err == nil {
				v, err = version.Parse(val)
			}
		default:
			var val string
			val, found, err = s.API.RegistryStringValue(viewNative(), dotNetNDPPath+`\`+key+`\Full`, "Version")
			if found && err == nil {
				v, err = version.Parse(val)
			}
		}
		if err != nil || !found {
			continue
		}

		s.Installed.SetDetected("com.microsoft.DotNetRedistributable", v, "", nil)
	}
	return nil
}

// parseNDPKeyVersion extracts the numeric "x.y" prefix from a "vX.Y..."
// sub-key name, used only to choose which value source applies.
func parseNDPKeyVersion(key string) (float64, bool) {
	rest := strings.TrimPrefix(key, "v")
	parts := strings.SplitN(rest, ".", 3)
	if len(parts) < 2 {
		return 0, false
	}
	f, err := strconv.ParseFloat(parts[0]+"."+parts[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
