package hook_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRunAllCollectsDetectedRecords(t *testing.T) {
	r := hook.NewRegistry()
	r.Add(hook.Plugin{
		Name:                "chocolatey",
		DetectionInfoPrefix: "choco",
		Script: `
detected := [
	{name: "org.7zip.SevenZip", version: "19.0", dir: "C:/Tools/7zip", uninstall: ""}
]`,
	})

	results := r.RunAll()
	require.Len(t, results, 1)
	assert.Equal(t, "choco", results[0].DetectionInfoPrefix)
	assert.NoError(t, results[0].Err)
	require.Len(t, results[0].Records, 1)
	assert.Equal(t, "org.7zip.SevenZip", results[0].Records[0].PackageName)
	assert.Equal(t, "19.0", results[0].Records[0].Version)
}

func TestRegistryRunAllWithNoDetectedVariableReportsNothing(t *testing.T) {
	r := hook.NewRegistry()
	r.Add(hook.Plugin{Name: "empty", DetectionInfoPrefix: "empty", Script: `x := 1`})

	results := r.RunAll()
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Empty(t, results[0].Records)
}

func TestRegistryAddReplacesSamePrefix(t *testing.T) {
	r := hook.NewRegistry()
	r.Add(hook.Plugin{Name: "a", DetectionInfoPrefix: "p", Script: `detected := []`})
	r.Add(hook.Plugin{Name: "b", DetectionInfoPrefix: "p", Script: `detected := []`})

	results := r.RunAll()
	require.Len(t, results, 1)
}
