package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/causa-hse/causa/internal/fsutil"
)

const (
	keyAPIBaseURL        = "api.baseUrl"
	keyAPITokenEnv       = "api.tokenEnv"
	keyAPITimeoutSeconds = "api.timeoutSeconds"
	keyExportFormat      = "export.format"
	keyExportLocale      = "export.locale"
	keyLoggingLevel      = "logging.level"
	keyLoggingFormat     = "logging.format"
)

type RawOptionValue struct {
	Int    *int
	String *string
}

// Display renders the value for tables; unset values render as "".
func (v RawOptionValue) Display() string {
	switch {
	case v.Int != nil:
		return fmt.Sprintf("%d", *v.Int)
	case v.String != nil:
		return *v.String
	default:
		return ""
	}
}

type LayerOptionValues struct {
	Present bool
	Values  map[string]RawOptionValue
}

// LoadLayerOptionValues reads project and global configs and returns per-option raw values
// (project first, then global).
func LoadLayerOptionValues(projectRoot string) (LayerOptionValues, LayerOptionValues, error) {
	globalCfg, globalPresent, err := LoadGlobalConfig()
	if err != nil {
		return LayerOptionValues{}, LayerOptionValues{}, err
	}
	projectCfg, projectPresent, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return LayerOptionValues{}, LayerOptionValues{}, err
	}

	project := LayerOptionValues{
		Present: projectPresent,
		Values:  RawOptionValues(projectCfg),
	}
	global := LayerOptionValues{
		Present: globalPresent,
		Values:  RawOptionValues(globalCfg),
	}
	return project, global, nil
}

// RawOptionValues extracts known raw option values from a config layer.
func RawOptionValues(cfg RawConfig) map[string]RawOptionValue {
	values := map[string]RawOptionValue{}

	putString := func(key string, v *string) {
		if v != nil {
			values[key] = RawOptionValue{String: copyString(*v)}
		}
	}

	if cfg.API != nil {
		putString(keyAPIBaseURL, cfg.API.BaseURL)
		putString(keyAPITokenEnv, cfg.API.TokenEnv)
		if cfg.API.TimeoutSeconds != nil {
			values[keyAPITimeoutSeconds] = RawOptionValue{Int: copyInt(*cfg.API.TimeoutSeconds)}
		}
	}
	if cfg.Export != nil {
		putString(keyExportFormat, cfg.Export.Format)
		putString(keyExportLocale, cfg.Export.Locale)
	}
	if cfg.Logging != nil {
		putString(keyLoggingLevel, cfg.Logging.Level)
		putString(keyLoggingFormat, cfg.Logging.Format)
	}

	return values
}

// UpdateConfigValue sets keyPath in the config file at path, or removes it
// when value is nil. Other keys already in the file are preserved.
func UpdateConfigValue(path string, keyPath string, value *RawOptionValue) error {
	if _, ok := LookupOption(keyPath); !ok {
		return fmt.Errorf("unknown config key %q", keyPath)
	}
	cfg, _, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	values := RawOptionValues(cfg)
	if value == nil {
		delete(values, keyPath)
	} else {
		values[keyPath] = *value
	}
	return SaveConfigValues(path, values)
}

// SaveConfigValues writes the provided raw option values to disk.
// The file includes schemaVersion and only set keys; empty layers remove the file.
func SaveConfigValues(path string, values map[string]RawOptionValue) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	cfg, hasValues, err := buildRawConfig(values)
	if err != nil {
		return err
	}
	if !hasValues {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove config %s: %w", path, err)
		}
		return nil
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func buildRawConfig(values map[string]RawOptionValue) (RawConfig, bool, error) {
	var cfg RawConfig
	var api RawAPI
	var export RawExport
	var logging RawLogging
	var hasAPI, hasExport, hasLogging bool

	for key, value := range values {
		if value.Int != nil && value.String != nil {
			return RawConfig{}, false, fmt.Errorf("config key %q has both int and string values", key)
		}
		if value.Int == nil && value.String == nil {
			continue
		}

		if key == keyAPITimeoutSeconds {
			if value.Int == nil {
				return RawConfig{}, false, fmt.Errorf("config key %q expects int value", key)
			}
			api.TimeoutSeconds = copyInt(*value.Int)
			hasAPI = true
			continue
		}

		if value.String == nil {
			if _, ok := LookupOption(key); !ok {
				return RawConfig{}, false, fmt.Errorf("unknown config key %q", key)
			}
			return RawConfig{}, false, fmt.Errorf("config key %q expects string value", key)
		}
		v := copyString(*value.String)
		switch key {
		case keyAPIBaseURL:
			api.BaseURL = v
			hasAPI = true
		case keyAPITokenEnv:
			api.TokenEnv = v
			hasAPI = true
		case keyExportFormat:
			export.Format = v
			hasExport = true
		case keyExportLocale:
			export.Locale = v
			hasExport = true
		case keyLoggingLevel:
			logging.Level = v
			hasLogging = true
		case keyLoggingFormat:
			logging.Format = v
			hasLogging = true
		default:
			return RawConfig{}, false, fmt.Errorf("unknown config key %q", key)
		}
	}

	if !hasAPI && !hasExport && !hasLogging {
		return RawConfig{}, false, nil
	}
	if hasAPI {
		cfg.API = &api
	}
	if hasExport {
		cfg.Export = &export
	}
	if hasLogging {
		cfg.Logging = &logging
	}
	version := SchemaVersion
	cfg.SchemaVersion = &version

	return cfg, true, nil
}

func copyInt(v int) *int {
	return &v
}

func copyString(v string) *string {
	return &v
}
