package config

import "strings"

// ResolveConfig merges project/global configs with built-in defaults.
// Precedence per key: project > global > defaults. Integers are clamped to
// their bounds; enum values outside their choice list fall through to the
// next layer.
func ResolveConfig(project RawConfig, global RawConfig) ResolvedConfig {
	defaults := DefaultResolvedConfig()

	return ResolvedConfig{
		SchemaVersion: SchemaVersion,
		API: ResolvedAPI{
			BaseURL: resolveString(
				apiValue(project, func(api RawAPI) *string { return api.BaseURL }),
				apiValue(global, func(api RawAPI) *string { return api.BaseURL }),
				defaults.API.BaseURL,
			),
			TokenEnv: resolveString(
				apiValue(project, func(api RawAPI) *string { return api.TokenEnv }),
				apiValue(global, func(api RawAPI) *string { return api.TokenEnv }),
				defaults.API.TokenEnv,
			),
			TimeoutSeconds: resolveIntWithBounds(
				apiIntValue(project),
				apiIntValue(global),
				defaults.API.TimeoutSeconds,
				MinAPITimeoutSeconds,
				MaxAPITimeoutSeconds,
			),
		},
		Export: ResolvedExport{
			Format: resolveEnum(
				exportValue(project, func(e RawExport) *string { return e.Format }),
				exportValue(global, func(e RawExport) *string { return e.Format }),
				defaults.Export.Format,
				exportFormats,
			),
			Locale: resolveEnum(
				exportValue(project, func(e RawExport) *string { return e.Locale }),
				exportValue(global, func(e RawExport) *string { return e.Locale }),
				defaults.Export.Locale,
				exportLocales,
			),
		},
		Logging: ResolvedLogging{
			Level: resolveEnum(
				loggingValue(project, func(l RawLogging) *string { return l.Level }),
				loggingValue(global, func(l RawLogging) *string { return l.Level }),
				defaults.Logging.Level,
				loggingLevels,
			),
			Format: resolveEnum(
				loggingValue(project, func(l RawLogging) *string { return l.Format }),
				loggingValue(global, func(l RawLogging) *string { return l.Format }),
				defaults.Logging.Format,
				loggingFormats,
			),
		},
	}
}

func apiValue(cfg RawConfig, pick func(RawAPI) *string) *string {
	if cfg.API == nil {
		return nil
	}
	return pick(*cfg.API)
}

func apiIntValue(cfg RawConfig) *int {
	if cfg.API == nil {
		return nil
	}
	return cfg.API.TimeoutSeconds
}

func exportValue(cfg RawConfig, pick func(RawExport) *string) *string {
	if cfg.Export == nil {
		return nil
	}
	return pick(*cfg.Export)
}

func loggingValue(cfg RawConfig, pick func(RawLogging) *string) *string {
	if cfg.Logging == nil {
		return nil
	}
	return pick(*cfg.Logging)
}

func resolveString(projectVal *string, globalVal *string, defaultVal string) string {
	if value := normalizeString(projectVal); value != "" {
		return value
	}
	if value := normalizeString(globalVal); value != "" {
		return value
	}
	return defaultVal
}

func resolveEnum(projectVal *string, globalVal *string, defaultVal string, choices []string) string {
	if value, ok := normalizeEnum(projectVal, choices); ok {
		return value
	}
	if value, ok := normalizeEnum(globalVal, choices); ok {
		return value
	}
	return defaultVal
}

func normalizeEnum(value *string, choices []string) (string, bool) {
	v := strings.ToLower(normalizeString(value))
	if v == "" {
		return "", false
	}
	for _, c := range choices {
		if v == c {
			return v, true
		}
	}
	return "", false
}

func resolveIntWithBounds(projectVal *int, globalVal *int, defaultVal int, min int, max int) int {
	if projectVal != nil {
		return clampInt(*projectVal, min, max)
	}
	if globalVal != nil {
		return clampInt(*globalVal, min, max)
	}
	return clampInt(defaultVal, min, max)
}

func clampInt(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func normalizeString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
