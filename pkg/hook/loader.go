package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PluginFileExtension is the only script format a third-party PM plugin may
// use, matching the teacher's .tengo convention in pkg/hooks/loader.go.
const PluginFileExtension = ".tengo"

// LoadPluginsFromDir loads every *.tengo file in dir as a Plugin. The
// DetectionInfoPrefix is the file's base name, mirroring how the teacher's
// hook loader derives a hook's identity from its filename.
func LoadPluginsFromDir(dir string) ([]Plugin, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}

	var plugins []Plugin
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != PluginFileExtension {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading plugin %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), PluginFileExtension)
		plugins = append(plugins, Plugin{
			Name:                name,
			DetectionInfoPrefix: name,
			Script:              string(content),
		})
	}
	return plugins, nil
}
