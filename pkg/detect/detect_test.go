package detect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/npackd/npackd-go/pkg/catalog"
	"github.com/npackd/npackd-go/pkg/detect"
	"github.com/npackd/npackd-go/pkg/detect/winapi"
	"github.com/npackd/npackd-go/pkg/hook"
	"github.com/npackd/npackd-go/pkg/installed"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/platform"
	"github.com/npackd/npackd-go/pkg/version"
)

func newSession(t *testing.T) (*detect.Session, *winapi.Fake) {
	t.Helper()
	store, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := installed.New(installed.NewFakeRegistryStore())
	api := winapi.New()

	return &detect.Session{
		Catalog:       store,
		Installed:     reg,
		Hooks:         hook.NewRegistry(),
		API:           api,
		WindowsDir:    `C:\Windows`,
		InstallRoot:   t.TempDir(),
		PluginDataDir: t.TempDir(),
	}, api
}

func TestOSDetectorRegistersWindowsAndBitness(t *testing.T) {
	s, api := newSession(t)
	api.Version = winapi.OSVersion{Major: 10, Minor: 0, Build: 19045}

	require.NoError(t, detect.NewPipeline().Step("os").Run(context.Background(), s))

	win := s.Installed.Find("com.microsoft.Windows", version.MustParse("10.0.19045"))
	require.NotNil(t, win)

	bitness := platform.Windows32
	if platform.Is64BitProcess() {
		bitness = platform.Windows64
	}
	require.True(t, s.Installed.IsInstalled(bitness, version.MustParse("10.0.19045")))
}

func TestJavaDetectorRegistersExistingJavaHome(t *testing.T) {
	s, api := newSession(t)
	home := t.TempDir()
	api.SubKeys[platform.View64] = map[string][]string{
		`Software\JavaSoft\Java Runtime Environment`: {"1.8.0_341"},
	}
	api.Strings[platform.View64] = map[string]map[string]string{
		`Software\JavaSoft\Java Runtime Environment\1.8.0_341`: {"JavaHome": home},
	}
	api.SubKeys[platform.View32] = map[string][]string{}
	api.Strings[platform.View32] = map[string]map[string]string{}

	javaStep := detect.NewPipeline().Step("java")
	require.NoError(t, javaStep.Run(context.Background(), s))

	rec := s.Installed.Find("com.oracle.JRE", version.MustParse("1.8.0.341"))
	require.NotNil(t, rec)
	require.Equal(t, home, rec.Directory)
}

func TestMSIDetectorMatchesAndRemovesStaleGUID(t *testing.T) {
	s, api := newSession(t)

	xmlDoc := []byte(`<root spec-version="1">
<package name="org.example.Foo"><title>Foo</title></package>
<version package="org.example.Foo" name="1.0">
  <msiguid>{00000000-0000-0000-0000-000000000001}</msiguid>
</version>
</root>`)
	require.NoError(t, s.Catalog.SavePackage(&model.Package{Name: "org.example.Foo", Title: "Foo"}))
	pv := &model.PackageVersion{
		PackageName: "org.example.Foo",
		Version:     version.MustParse("1.0"),
		MSIGUID:     "{00000000-0000-0000-0000-000000000001}",
		Content:     xmlDoc,
	}
	require.NoError(t, s.Catalog.SavePackageVersion(pv))

	api.Products = []winapi.MSIProduct{
		{ProductCode: "{00000000-0000-0000-0000-000000000001}", InstallLocation: `C:\Foo`},
	}

	msiStep := detect.NewPipeline().Step("msi")
	require.NoError(t, msiStep.Run(context.Background(), s))

	rec := s.Installed.Find("org.example.Foo", version.MustParse("1.0"))
	require.NotNil(t, rec)
	require.Equal(t, `C:\Foo`, rec.Directory)

	api.Products = nil
	require.NoError(t, msiStep.Run(context.Background(), s))
	require.Nil(t, s.Installed.Find("org.example.Foo", version.MustParse("1.0")))
}

func TestWindowsInstallerDetectorAppliesMSXML3Quirk(t *testing.T) {
	s, api := newSession(t)
	api.Files[filepath.Join(`C:\Windows`, "System32", "msxml3.dll")] = "8.110.8760.0"

	step := detect.NewPipeline().Step("windows-installer-msxml")
	require.NoError(t, step.Run(context.Background(), s))

	rec := s.Installed.Find("com.microsoft.MSXML3", version.MustParse("3.8.110.8760.0"))
	require.NotNil(t, rec)
}

func TestThirdPartyDetectorSynthesisesDirectoryForRecordWithoutOne(t *testing.T) {
	s, _ := newSession(t)
	s.Hooks.Add(hook.Plugin{Name: "stub", DetectionInfoPrefix: "stub", Script: `
detected := [{name: "com.example.Stub", version: "1.0", dir: "", uninstall: ""}]
`})

	step := detect.NewPipeline().Step("third-party-pm")
	require.NoError(t, step.Run(context.Background(), s))

	rec := s.Installed.Find("com.example.Stub", version.MustParse("1.0"))
	require.NotNil(t, rec)
	_, err := os.Stat(filepath.Join(rec.Directory, "Uninstall.bat"))
	require.NoError(t, err)
}

func TestEnvDetectorSetsNewestNpackdCLDirectory(t *testing.T) {
	s, api := newSession(t)
	require.NoError(t, s.Installed.SetPackageVersionPath(
		"com.googlecode.windows-package-manager.NpackdCL", version.MustParse("1.21"), `C:\NpackdCL`, false))

	step := detect.NewPipeline().Step("npackd-cl-env")
	require.NoError(t, step.Run(context.Background(), s))

	require.Equal(t, `C:\NpackdCL`, api.EnvSets["NPACKD_CL"])
}
