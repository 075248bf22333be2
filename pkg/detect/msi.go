package detect

import (
	"context"
)

// msiDetector matches Windows Installer's product table against every
// catalogued version's MSIGUID, registering a record for each match and
// removing any previously-registered MSI-backed record whose product code
// has disappeared since the last refresh.
type msiDetector struct{}

func (msiDetector) Name() string { return "msi" }

const msiDetectionInfoPrefix = "msi-guid"

func (d msiDetector) Run(ctx context.Context, s *Session) error {
	products, err := s.API.MSIProducts()
	if err != nil {
		return err
	}
	byGUID := make(map[string]string, len(products))
	for _, p := range products {
		byGUID[p.ProductCode] = p.InstallLocation
	}

	versions, err := s.Catalog.GetPackageVersionsWithMSIGUID()
	if err != nil {
		return err
	}

	for _, pv := range versions {
		if pv.MSIGUID == "" {
			continue
		}
		loc, present := byGUID[pv.MSIGUID]
		if !present {
			continue
		}
		if loc == "" {
			loc = s.WindowsDir
		}
		s.Installed.SetDetected(pv.PackageName, pv.Version, loc, map[string]string{
			msiDetectionInfoPrefix: pv.MSIGUID,
		})
	}

	for _, rec := range s.Installed.GetAll() {
		guid, ok := rec.DetectionInfo[msiDetectionInfoPrefix]
		if !ok {
			continue
		}
		if _, present := byGUID[guid]; !present {
			s.Installed.RemoveVersion(rec.PackageName, rec.Version)
		}
	}
	return nil
}
