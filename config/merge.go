package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/eminiarts/tweakpine/errors"
)

// overrideNames are local, usually untracked, files layered over the config
// file found next to them.
var overrideNames = []string{
	"tweakpine.override.yml",
	"tweakpine.override.yaml",
	".tweakpine.override.yml",
	".tweakpine.override.yaml",
}

// LoadWithOverrides loads baseFile and merges every override file found in
// the same directory over it. Only fields set in an override take effect.
func LoadWithOverrides(baseFile string) (*Config, error) {
	cfg, err := Load(baseFile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(baseFile)
	merged := false
	for _, name := range overrideNames {
		overrideFile := filepath.Join(dir, name)
		data, err := os.ReadFile(overrideFile)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read override file").
				WithDetail("path", overrideFile)
		}

		var override Config
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &override); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse override file").
				WithDetail("path", overrideFile)
		}
		cfg = mergeConfigs(cfg, &override)
		merged = true
	}

	if !merged {
		return cfg, nil
	}
	return finish(cfg)
}

// mergeConfigs returns base with the fields set in override applied.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	result.Presets = mergePresets(base.Presets, override.Presets)
	result.Panel = mergePanel(base.Panel, override.Panel)

	if override.Extensions != nil {
		extensions := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for key, value := range base.Extensions {
			extensions[key] = value
		}
		for key, value := range override.Extensions {
			baseMap, baseOk := extensions[key].(map[string]interface{})
			overrideMap, overrideOk := value.(map[string]interface{})
			if baseOk && overrideOk {
				mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
				for k, v := range baseMap {
					mergedMap[k] = v
				}
				for k, v := range overrideMap {
					mergedMap[k] = v
				}
				extensions[key] = mergedMap
				continue
			}
			extensions[key] = value
		}
		result.Extensions = extensions
	}

	return &result
}

func mergePresets(base, override PresetsConfig) PresetsConfig {
	result := base

	if override.Backend != "" {
		result.Backend = override.Backend
	}
	if override.Dir != "" {
		result.Dir = override.Dir
	}
	if override.DSN != "" {
		result.DSN = override.DSN
	}
	if override.RestoreActive {
		result.RestoreActive = true
	}
	if override.Watch {
		result.Watch = true
	}
	return result
}

func mergePanel(base, override PanelSettings) PanelSettings {
	result := base

	if override.Position != "" {
		result.Position = override.Position
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.SpringModeSwitch != "" {
		result.SpringModeSwitch = override.SpringModeSwitch
	}
	if len(override.Keys) > 0 {
		keys := make(map[string][]string, len(base.Keys)+len(override.Keys))
		for name, k := range base.Keys {
			keys[name] = k
		}
		for name, k := range override.Keys {
			keys[name] = k
		}
		result.Keys = keys
	}
	return result
}
