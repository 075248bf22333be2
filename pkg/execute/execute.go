// Package execute supplies the default implementations of the three
// collaborators the core itself declares out of scope:
// downloading a package's payload, unpacking it, and running its
// uninstall/install-hook scripts. The core depends only on the small
// interfaces below; pkg/execute is glue, not a reimplementation of the
// teacher's installer.
package execute

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// Downloader fetches a PackageVersion's payload to a local file.
type Downloader interface {
	Download(ctx context.Context, url string, destFile string) error
}

// Extractor unpacks a downloaded archive into an installation directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// ScriptRunner runs a named script file (Uninstall.bat, InstallHook.bat)
// inside a package's installation directory.
type ScriptRunner interface {
	Run(ctx context.Context, scriptPath string, args ...string) error
}

// HTTPDownloader reuses pkg/loader's circuit-breaker fetcher instead of
// opening a second, uncoordinated HTTP client.
type HTTPDownloader struct {
	fetcher *loader.Fetcher
}

// NewHTTPDownloader wraps an existing *loader.Fetcher.
func NewHTTPDownloader(f *loader.Fetcher) *HTTPDownloader {
	return &HTTPDownloader{fetcher: f}
}

// Download fetches url and writes its body to destFile, verbatim.
func (d *HTTPDownloader) Download(ctx context.Context, url string, destFile string) error {
	body, _, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrNetwork, "download %s", url)
	}
	if err := os.MkdirAll(filepath.Dir(destFile), 0o755); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "create %s", filepath.Dir(destFile))
	}
	if err := os.WriteFile(destFile, body, 0o644); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "write %s", destFile)
	}
	return nil
}

// ArchiveExtractor unpacks downloaded package payloads with
// github.com/mholt/archives, the same library the teacher's own
// pkg/archive.Manager uses, format auto-detected from the archive's
// contents rather than its extension.
type ArchiveExtractor struct{}

// NewArchiveExtractor creates an ArchiveExtractor.
func NewArchiveExtractor() *ArchiveExtractor { return &ArchiveExtractor{} }

// Extract walks archivePath's filesystem view and writes every entry
// under destDir, creating directories and following the same
// symlink/regular-file split as the teacher's pkg/archive.Manager.
func (e *ArchiveExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "open archive %s", archivePath)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "create %s", destDir)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return extractEntry(fsys, path, destDir, d)
	})
}

func extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}
	targetPath := filepath.Join(destDir, path)

	if d.IsDir() {
		return os.MkdirAll(targetPath, 0o755)
	}

	info, err := d.Info()
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "stat %s", path)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return writeSymlink(fsys, path, targetPath)
	}
	return writeRegularFile(fsys, path, targetPath, info)
}

func writeSymlink(fsys fs.FS, path, targetPath string) error {
	link, err := fsys.Open(path)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "open symlink %s", path)
	}
	defer func() { _ = link.Close() }()

	target, err := io.ReadAll(link)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "read symlink target %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "create parent of %s", targetPath)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(string(target), targetPath)
}

func writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	src, err := fsys.Open(path)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "open %s", path)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "create parent of %s", targetPath)
	}
	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "create %s", targetPath)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrFilesystem, "copy %s", path)
	}
	return nil
}

// CmdScriptRunner invokes a .bat script through cmd.exe /C, matching
// the literal InstallHook.bat/Uninstall.bat file names a detector or an
// install records against a package's directory.
type CmdScriptRunner struct{}

// NewCmdScriptRunner creates a CmdScriptRunner.
func NewCmdScriptRunner() *CmdScriptRunner { return &CmdScriptRunner{} }

// Run executes scriptPath via cmd.exe /C with the given arguments, in the
// script's own directory.
func (r *CmdScriptRunner) Run(ctx context.Context, scriptPath string, args ...string) error {
	if _, err := os.Stat(scriptPath); err != nil {
		return nil // an absent hook script is not an error
	}
	full := append([]string{"/C", scriptPath}, args...)
	cmd := exec.CommandContext(ctx, "cmd.exe", full...)
	cmd.Dir = filepath.Dir(scriptPath)
	if err := cmd.Run(); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrInternal, "script %s: %v", scriptPath, err)
	}
	return nil
}
