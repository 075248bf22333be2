package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SetValue sets a configuration value by key, for "npackd config set".
// Supported keys: cache_dir, state_dir, install_dir, meta_dir, plugin_dir,
// max_concurrent_loads, output_format, log_level. The http_timeout and
// repository_auth settings are not settable through it.
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "cache_dir":
		c.Settings.CacheDir = value
	case "state_dir":
		c.Settings.StateDir = value
	case "install_dir":
		c.Settings.InstallDir = value
	case "meta_dir":
		c.Settings.MetaDir = value
	case "plugin_dir":
		c.Settings.PluginDir = value
	case "max_concurrent_loads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		c.Settings.MaxConcurrent = n
	case "output_format":
		c.Settings.OutputFormat = value
	case "log_level":
		c.Settings.LogLevel = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// GetValue returns a configuration value as a string, for
// "npackd config get".
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case "cache_dir":
		return c.Settings.CacheDir, nil
	case "state_dir":
		return c.Settings.StateDir, nil
	case "install_dir":
		return c.Settings.InstallDir, nil
	case "meta_dir":
		return c.Settings.MetaDir, nil
	case "plugin_dir":
		return c.Settings.PluginDir, nil
	case "max_concurrent_loads":
		return strconv.Itoa(c.Settings.MaxConcurrent), nil
	case "output_format":
		return c.Settings.OutputFormat, nil
	case "log_level":
		return c.Settings.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// ToMap renders every Settings field to a string, keyed by its yaml tag,
// for "npackd config list".
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string

		switch fieldValue.Kind() {
		case reflect.Bool:
			strValue = strconv.FormatBool(fieldValue.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			strValue = strconv.FormatInt(fieldValue.Int(), 10)
		case reflect.Map:
			strValue = fmt.Sprintf("%v", fieldValue.Interface())
		case reflect.String:
			strValue = fieldValue.String()
		default:
			strValue = fmt.Sprintf("%v", fieldValue.Interface())
		}

		result[yamlKey] = strValue
	}

	return result
}
