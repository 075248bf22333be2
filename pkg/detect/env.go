package detect

import "context"

const npackdCLPackage = "com.googlecode.windows-package-manager.NpackdCL"

// envDetector points the NPACKD_CL environment variable at the newest
// installed NpackdCL, so scripts that shell out to "npackdcl" keep working
// across upgrades without the caller needing to know its install path.
type envDetector struct{}

func (envDetector) Name() string { return "npackd-cl-env" }

func (d envDetector) Run(ctx context.Context, s *Session) error {
	newest := s.Installed.GetNewestInstalled(npackdCLPackage)
	if newest == nil || newest.Directory == "" {
		return nil
	}
	return s.API.SetSystemEnv("NPACKD_CL", newest.Directory)
}
