// Package loader downloads and parses remote repository XML documents and
// merges their contents into the catalogue, grounded on the teacher's
// pkg/repository/http.go (HTTP client shape) and on git-pkgs-registries'
// fetch package (circuit breaker, backoff, DNS-cached dialer) for the
// resiliency layer a remote fetcher needs but the teacher never built, since
// gotya's own repositories are trusted local mirrors, not public endpoints.
package loader

import (
	"encoding/xml"

	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/npackd/npackd-go/pkg/version"
)

// xmlRepository mirrors only the fields the core reads from a <root>
// repository document — documents that far ahead exclude the rest of the
// schema of individual <version> payloads from this core's concern.
type xmlRepository struct {
	XMLName xml.Name `xml:"root"`
	SpecVersion string `xml:"spec-version"`
	Licenses []xmlLicense `xml:"license"`
	Packages []xmlPackage `xml:"package"`
	Versions []xmlVersion `xml:"version"`
}

type xmlLicense struct {
	Name string `xml:"name,attr"`
	Title string `xml:"title,attr"`
	Description string `xml:"description"`
	URL string `xml:"url,attr"`
}

type xmlPackage struct {
	Name string `xml:"name,attr"`
	Title string `xml:"title"`
	URL string `xml:"url"`
	Icon string `xml:"icon"`
	Description string `xml:"description"`
	License string `xml:"license"`
	Category0 string `xml:"category0"`
	Category1 string `xml:"category1"`
	Category2 string `xml:"category2"`
	Category3 string `xml:"category3"`
	Category4 string `xml:"category4"`
}

type xmlVersion struct {
	Package string `xml:"package,attr"`
	Name string `xml:"name,attr"`
	URL string `xml:"url"`
	SHA1 string `xml:"sha1"`
	MSIGUID string `xml:"msiguid"`
	Important bool `xml:"important,attr"`
	Dependencies []xmlDependency `xml:"dependency"`
	DetectFiles []xmlDetectFile `xml:"detect-file"`
}

type xmlDependency struct {
	Package string `xml:"package,attr"`
	Min string `xml:"versionMin,attr"`
	Max string `xml:"versionMax,attr"`
}

type xmlDetectFile struct {
	Path string `xml:"path,attr"`
	SHA1 string `xml:"sha1,attr"`
}

// ParsedDocument is one repository XML document decoded into entity model
// values, ready for the merge policy in Load.
type ParsedDocument struct {
	Licenses []model.License
	Packages []model.Package
	Versions []model.PackageVersion
}

// minSpecVersionIncompatible is the first spec-version this core refuses to
// load.
var minSpecVersionIncompatible = version.MustParse("4.0")

// Parse decodes raw repository XML, validates spec-version compatibility,
// and converts every element into entity-model values. content is also
// stashed verbatim on each PackageVersion, since PACKAGE_VERSION.CONTENT
// stores the XML blob verbatim for on-demand re-parsing.
func Parse(raw []byte) (*ParsedDocument, error) {
	var doc xmlRepository
	if err := xml.Unmarshal(raw, &doc); err != nil {
		if syn, ok := err.(*xml.SyntaxError); ok {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrXMLParse, "line %d: %s", syn.Line, syn.Msg)
		}
		return nil, npkgerrors.Wrapf(npkgerrors.ErrXMLParse, "%v", err)
	}

	if doc.SpecVersion != "" {
		sv, err := version.Parse(doc.SpecVersion)
		if err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrXMLParse, "invalid spec-version %q", doc.SpecVersion)
		}
		if sv.GreaterOrEqual(minSpecVersionIncompatible) {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrIncompatibleRepo, "spec-version %s", doc.SpecVersion)
		}
	}

	out := &ParsedDocument{}

	seenLicense := map[string]bool{}
	for _, l := range doc.Licenses {
		if l.Name == "" || seenLicense[l.Name] {
			continue
		}
		seenLicense[l.Name] = true
		out.Licenses = append(out.Licenses, model.License{Name: l.Name, Title: l.Title, Description: l.Description, URL: l.URL})
	}

	seenPackage := map[string]bool{}
	for _, p := range doc.Packages {
		if p.Name == "" || seenPackage[p.Name] {
			continue
		}
		seenPackage[p.Name] = true
		out.Packages = append(out.Packages, model.Package{
			Name: p.Name,
			Title: p.Title,
			URL: p.URL,
			IconURL: p.Icon,
			Description: p.Description,
			LicenseName: p.License,
			Categories: [5]string{p.Category0, p.Category1, p.Category2, p.Category3, p.Category4},
		})
	}

	seenVersion := map[model.PackageVersionKey]bool{}
	for _, v := range doc.Versions {
		ver, err := version.Parse(v.Name)
		if err != nil {
			continue // malformed individual version entries are skipped, not fatal
		}
		key := model.PackageVersionKey{Name: v.Package, Version: ver.Normalize().String()}
		if v.Package == "" || seenVersion[key] {
			continue
		}
		seenVersion[key] = true

		deps := make([]version.Dependency, 0, len(v.Dependencies))
		for _, d := range v.Dependencies {
			dep := version.Dependency{Package: d.Package}
			if d.Min != "" {
				if minV, err := version.Parse(d.Min); err == nil {
					dep.Min = minV
				}
			}
			if d.Max != "" {
				if maxV, err := version.Parse(d.Max); err == nil {
					dep.Max = maxV
					dep.HasMax = true
				}
			}
			deps = append(deps, dep)
		}

		files := make([]model.DetectFile, 0, len(v.DetectFiles))
		for _, f := range v.DetectFiles {
			files = append(files, model.DetectFile{Path: f.Path, ExpectedSHA1: f.SHA1})
		}

		out.Versions = append(out.Versions, model.PackageVersion{
			PackageName: v.Package,
			Version: ver,
			DownloadURL: v.URL,
			SHA1: v.SHA1,
			MSIGUID: v.MSIGUID,
			Important: v.Important,
			Dependencies: deps,
			DetectFiles: files,
			Content: raw,
		})
	}

	return out, nil
}
