package hook

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// TengoExecutor runs third-party-PM detection scripts. Adapted from the
// teacher's pkg/hooks/tengo_executor.go (install/uninstall lifecycle
// hooks) to a detection contract: a script
// that populates a "detected" array of records rather than one that just
// succeeds or fails.
type TengoExecutor struct{}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{}
}

// Run executes plugin.Script and returns the records it reported via its
// "detected" array variable, each element an object with name/version/dir/
// uninstall fields. A script that sets no such variable reports nothing.
func (e *TengoExecutor) Run(plugin Plugin) ([]DetectedRecord, error) {
	script := tengo.NewScript([]byte(plugin.Script))
	script.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

	compiled, err := script.Run()
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrInternal, "third-party PM plugin %s: %v", plugin.Name, err)
	}

	detected := compiled.Get("detected")
	if detected == nil || detected.IsUndefined() {
		return nil, nil
	}

	arr, ok := detected.Value().([]interface{})
	if !ok {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrInternal, "third-party PM plugin %s: detected is not an array", plugin.Name)
	}

	out := make([]DetectedRecord, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rec := DetectedRecord{
			PackageName: stringField(m, "name"),
			Version: stringField(m, "version"),
			Directory: stringField(m, "dir"),
			UninstallScript: stringField(m, "uninstall"),
		}
		if rec.PackageName == "" || rec.Version == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
