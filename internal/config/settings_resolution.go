package config

import "sort"

type ConfigSource string

const (
	ConfigSourceLocal   ConfigSource = "local"
	ConfigSourceGlobal  ConfigSource = "global"
	ConfigSourceDefault ConfigSource = "default"
)

type LayerWarningKind string

const (
	LayerWarningInvalidJSON       LayerWarningKind = "invalid_json"
	LayerWarningUnsupportedSchema LayerWarningKind = "unsupported_schema"
)

type OptionWarningKind string

const (
	OptionWarningOutOfRange    OptionWarningKind = "out_of_range"
	OptionWarningInvalidChoice OptionWarningKind = "invalid_choice"
)

type LayerWarning struct {
	Source ConfigSource
	Kind   LayerWarningKind
}

type OptionWarning struct {
	Source     ConfigSource
	KeyPath    string
	Kind       OptionWarningKind
	ClampedInt *int
}

type AppliedOption struct {
	Value  RawOptionValue
	Source ConfigSource
}

type SettingsLayer struct {
	Available bool
	Path      string
	Present   bool
	Values    map[string]RawOptionValue
}

type SettingsResolution struct {
	Project        SettingsLayer
	Global         SettingsLayer
	Applied        map[string]AppliedOption
	OptionWarnings []OptionWarning
	LayerWarnings  []LayerWarning
}

// ResolveSettings loads local/global config values and computes applied values with warnings.
func ResolveSettings(projectRoot string) (SettingsResolution, error) {
	projectLayer := SettingsLayer{
		Available: projectRoot != "",
		Path:      projectConfigPath(projectRoot),
		Values:    map[string]RawOptionValue{},
	}
	globalLayer := SettingsLayer{Values: map[string]RawOptionValue{}}

	var layerWarnings []LayerWarning
	var projectRaw RawConfig
	var globalRaw RawConfig

	if projectLayer.Available {
		cfg, present, warningKind, err := loadConfigFileDetailed(projectLayer.Path)
		if err != nil {
			return SettingsResolution{}, err
		}
		if warningKind != nil {
			layerWarnings = append(layerWarnings, LayerWarning{Source: ConfigSourceLocal, Kind: *warningKind})
		} else if present {
			projectLayer.Present = true
			projectLayer.Values = RawOptionValues(cfg)
			projectRaw = cfg
		}
	}

	globalPath, globalAvailable := globalConfigPath()
	globalLayer.Available = globalAvailable
	globalLayer.Path = globalPath
	if globalAvailable {
		cfg, present, warningKind, err := loadConfigFileDetailed(globalPath)
		if err != nil {
			return SettingsResolution{}, err
		}
		if warningKind != nil {
			layerWarnings = append(layerWarnings, LayerWarning{Source: ConfigSourceGlobal, Kind: *warningKind})
		} else if present {
			globalLayer.Present = true
			globalLayer.Values = RawOptionValues(cfg)
			globalRaw = cfg
		}
	}

	resolvedValues := ResolvedOptionValues(ResolveConfig(projectRaw, globalRaw))

	applied := map[string]AppliedOption{}
	for _, option := range OptionRegistry() {
		key := option.KeyPath
		source := ConfigSourceDefault
		if value, ok := projectLayer.Values[key]; ok && acceptsValue(option, value) {
			source = ConfigSourceLocal
		} else if value, ok := globalLayer.Values[key]; ok && acceptsValue(option, value) {
			source = ConfigSourceGlobal
		}
		applied[key] = AppliedOption{
			Value:  resolvedValues[key],
			Source: source,
		}
	}

	optionWarnings := append(
		collectOptionWarnings(ConfigSourceLocal, projectLayer.Values),
		collectOptionWarnings(ConfigSourceGlobal, globalLayer.Values)...,
	)

	return SettingsResolution{
		Project:        projectLayer,
		Global:         globalLayer,
		Applied:        applied,
		OptionWarnings: optionWarnings,
		LayerWarnings:  layerWarnings,
	}, nil
}

func ResolvedOptionValues(cfg ResolvedConfig) map[string]RawOptionValue {
	return map[string]RawOptionValue{
		keyAPIBaseURL:        {String: copyString(cfg.API.BaseURL)},
		keyAPITokenEnv:       {String: copyString(cfg.API.TokenEnv)},
		keyAPITimeoutSeconds: {Int: copyInt(cfg.API.TimeoutSeconds)},
		keyExportFormat:      {String: copyString(cfg.Export.Format)},
		keyExportLocale:      {String: copyString(cfg.Export.Locale)},
		keyLoggingLevel:      {String: copyString(cfg.Logging.Level)},
		keyLoggingFormat:     {String: copyString(cfg.Logging.Format)},
	}
}

// acceptsValue mirrors ResolveConfig: blank strings and unknown enum choices
// fall through to the next layer.
func acceptsValue(option OptionMetadata, value RawOptionValue) bool {
	switch option.Type {
	case OptionTypeInt:
		return value.Int != nil
	case OptionTypeEnum:
		_, ok := normalizeEnum(value.String, option.Choices)
		return ok
	default:
		return normalizeString(value.String) != ""
	}
}

func collectOptionWarnings(source ConfigSource, values map[string]RawOptionValue) []OptionWarning {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	warnings := []OptionWarning{}
	for _, key := range keys {
		option, ok := LookupOption(key)
		if !ok {
			continue
		}
		value := values[key]
		switch option.Type {
		case OptionTypeInt:
			if value.Int == nil || option.Bounds == nil {
				continue
			}
			clamped := clampInt(*value.Int, option.Bounds.Min, option.Bounds.Max)
			if clamped != *value.Int {
				warnings = append(warnings, OptionWarning{
					Source:     source,
					KeyPath:    key,
					Kind:       OptionWarningOutOfRange,
					ClampedInt: copyInt(clamped),
				})
			}
		case OptionTypeEnum:
			if !acceptsValue(option, value) {
				warnings = append(warnings, OptionWarning{
					Source:  source,
					KeyPath: key,
					Kind:    OptionWarningInvalidChoice,
				})
			}
		}
	}
	return warnings
}
