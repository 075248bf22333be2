// Package npkgerrors defines the flat error taxonomy shared by every core
// component and maps each sentinel to the CLI process-exit code it carries.
package npkgerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per entry in the taxonomy.
var (
	ErrInvalidVersion = fmt.Errorf("invalid version")
	ErrInvalidPackageName = fmt.Errorf("invalid package name")
	ErrXMLParse = fmt.Errorf("failed to parse repository xml")
	ErrIncompatibleRepo = fmt.Errorf("incompatible repository spec-version")
	ErrNetwork = fmt.Errorf("network error")
	ErrDbOpen = fmt.Errorf("failed to open catalogue database")
	ErrDbError = fmt.Errorf("catalogue database error")
	ErrRegistryError = fmt.Errorf("windows registry error")
	ErrFilesystem = fmt.Errorf("filesystem error")
	ErrDependencyUnresolved = fmt.Errorf("dependency could not be resolved")
	ErrNoInstallable = fmt.Errorf("no installable version found")
	ErrNoInstalled = fmt.Errorf("package is not installed")
	ErrAlreadyNewest = fmt.Errorf("already at the newest version")
	ErrLockedByOther = fmt.Errorf("package version is locked by another operation")
	ErrUserCancel = fmt.Errorf("operation cancelled by user")
	ErrInternal = fmt.Errorf("internal error")

	ErrPackageNotFound = fmt.Errorf("package not found")
	ErrVersionNotFound = fmt.Errorf("package version not found")
	ErrLicenseNotFound = fmt.Errorf("license not found")
	ErrRepositoryNotFound = fmt.Errorf("repository not found")
)

// ExitCode is the process-exit mapping the CLI surfaces
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitUserCancel ExitCode = 1
	ExitBadInput ExitCode = 2
	ExitNotInstalled ExitCode = 3
	ExitDependencyMissing ExitCode = 4
	ExitDbError ExitCode = 5
	ExitNetwork ExitCode = 6
	ExitInternal ExitCode = 255
)

// Code maps an error produced anywhere in the core to the CLI exit code it
// should surface, walking the wrapped chain with errors.Is semantics.
func Code(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case is(err, ErrUserCancel):
		return ExitUserCancel
	case is(err, ErrInvalidVersion, ErrInvalidPackageName, ErrXMLParse, ErrIncompatibleRepo):
		return ExitBadInput
	case is(err, ErrNoInstalled):
		return ExitNotInstalled
	case is(err, ErrDependencyUnresolved):
		return ExitDependencyMissing
	case is(err, ErrDbOpen, ErrDbError):
		return ExitDbError
	case is(err, ErrNetwork):
		return ExitNetwork
	default:
		return ExitInternal
	}
}

func is(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// Wrap wraps an error with additional context. A nil err yields a nil error.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
