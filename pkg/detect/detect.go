// Package detect runs the sequence of probes that reconciles the
// InstalledPackages registry with what is actually present on the host:
// the OS itself, JRE/JDK installations, .NET Framework, MSI products,
// Windows Installer/MSXML file versions, third-party package managers, and
// the NPACKD_CL environment variable. Grounded on the teacher's
// pkg/orchestrator (pkg/orchestrator/orchestrator.go), whose Hooks-driven,
// strictly-sequential phase runner is adapted here into a pipeline of
// independently-isolated Detector steps instead of install/download/extract
// phases.
package detect

import (
	"context"
	"fmt"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/detect/winapi"
	"github.com/npackd/npackd-go/pkg/hook"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/job"
	"github.com/npackd/npackd-go/pkg/version"
)

// Session is the shared state every detector step reads and writes. One
// Session is built per refresh and threaded through the whole pipeline.
type Session struct {
	Catalog   *catalog.Store
	Installed *installed.Registry
	Hooks     *hook.Registry
	API       winapi.WinAPI
	Job       *job.Job

	// WindowsDir is %WINDIR%, used as the install-location fallback for
	// MSI products that report none.
	WindowsDir string

	// InstallRoot is the directory new packages are installed under,
	// scanned once by the pre-1.15 migration step.
	InstallRoot string

	// PluginDataDir holds synthesised NpackdDetected/ directories for
	// third-party PM records that arrived with no install directory.
	PluginDataDir string
}

// Detector is one isolated probe in the pipeline. A Detector's failure is
// reported to the caller but never aborts the remaining steps — each step
// reconciles a disjoint slice of the registry and has no reason to depend
// on another step's success.
type Detector interface {
	Name() string
	Run(ctx context.Context, s *Session) error
}

// StepError pairs a detector's name with the error it returned, collected
// by Pipeline.Run instead of being propagated as a single failure.
type StepError struct {
	Step string
	Err  error
}

func (e StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }

// Pipeline runs its Detectors strictly in registration order. This order
// matters: the pre-1.15 directory scan must happen exactly once, before any
// other detector has a chance to register directories of its own, and OS
// detection registers the two synthetic OS packages right after it.
type Pipeline struct {
	steps []Detector
}

// NewPipeline returns the pipeline's default detector sequence.
func NewPipeline() *Pipeline {
	return &Pipeline{steps: []Detector{
		preScanDetector{},
		osDetector{},
		javaDetector{},
		dotNetDetector{},
		msiDetector{},
		windowsInstallerDetector{},
		thirdPartyDetector{},
		envDetector{},
	}}
}

// Step returns the registered detector with the given Name, or nil if
// none matches — used by tests that want to exercise one step in
// isolation without running the full pipeline.
func (p *Pipeline) Step(name string) Detector {
	for _, step := range p.steps {
		if step.Name() == name {
			return step
		}
	}
	return nil
}

// Run executes every step in order. A step's error is recorded and the
// next step still runs; Run returns every recorded step error (nil when
// none failed). If ctx is cancelled, the pipeline stops before the next
// step and the cancellation is appended as that step's error.
func (p *Pipeline) Run(ctx context.Context, s *Session) []StepError {
	var errs []StepError
	total := len(p.steps)
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			errs = append(errs, StepError{Step: step.Name(), Err: err})
			return errs
		}
		if s.Job != nil {
			s.Job.Tick("detecting", i, total)
		}
		if err := step.Run(ctx, s); err != nil {
			errs = append(errs, StepError{Step: step.Name(), Err: err})
		}
	}
	if err := updateStatus(s); err != nil {
		errs = append(errs, StepError{Step: "update-status", Err: err})
	}
	return errs
}

// updateStatus recomputes each catalogued package's installed-version set
// from the registry just reconciled above, run once after every step has
// had a chance to register or remove records.
func updateStatus(s *Session) error {
	names, err := s.Catalog.DistinctPackageNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		var installedVersions []version.Version
		for _, rec := range s.Installed.GetByPackage(name) {
			installedVersions = append(installedVersions, rec.Version)
		}
		if err := s.Catalog.UpdateStatus(name, installedVersions); err != nil {
			return err
		}
	}
	return nil
}
