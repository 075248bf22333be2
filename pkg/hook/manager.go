package hook

import (
	"sync"
)

// Registry holds the set of third-party PM plugins the detection pipeline
// runs on each refresh. Adapted from the teacher's DefaultHookManager
// (pkg/hooks/manager.go), which kept one script per lifecycle stage; this
// registry instead keeps one script per third-party PM and runs all of
// them, since detection order between plugins is unspecified.
type Registry struct {
	mu sync.RWMutex
	plugins []Plugin
	exec *TengoExecutor
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{exec: NewTengoExecutor()}
}

// Add registers a plugin, replacing any existing plugin with the same
// DetectionInfoPrefix.
func (r *Registry) Add(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.plugins {
		if existing.DetectionInfoPrefix == p.DetectionInfoPrefix {
			r.plugins[i] = p
			return
		}
	}
	r.plugins = append(r.plugins, p)
}

// LoadDir loads every *.tengo plugin in dir into the registry.
func (r *Registry) LoadDir(dir string) error {
	plugins, err := LoadPluginsFromDir(dir)
	if err != nil {
		return err
	}
	for _, p := range plugins {
		r.Add(p)
	}
	return nil
}

// PluginResult pairs a plugin's identity with what it reported, so the
// detection pipeline's five-case policy knows which prefix owns which
// records even when a plugin reports nothing this pass.
type PluginResult struct {
	DetectionInfoPrefix string
	Records []DetectedRecord
	Err error
}

// RunAll runs every registered plugin and collects its results. A plugin
// that errors is isolated from the rest — "a failure
// reports but does not abort the remainder".
func (r *Registry) RunAll() []PluginResult {
	r.mu.RLock()
	plugins := make([]Plugin, len(r.plugins))
	copy(plugins, r.plugins)
	r.mu.RUnlock()

	results := make([]PluginResult, len(plugins))
	for i, p := range plugins {
		records, err := r.exec.Run(p)
		results[i] = PluginResult{DetectionInfoPrefix: p.DetectionInfoPrefix, Records: records, Err: err}
	}
	return results
}
