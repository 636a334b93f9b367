package config

import (
	"fmt"
	"strconv"
	"strings"
)

type OptionType string

const (
	OptionTypeString OptionType = "string"
	OptionTypeEnum   OptionType = "enum"
	OptionTypeInt    OptionType = "int"
)

type IntBounds struct {
	Min int
	Max int
}

type OptionMetadata struct {
	KeyPath       string
	DisplayName   string
	Type          OptionType
	DefaultInt    int
	DefaultString string
	Bounds        *IntBounds
	Choices       []string
	Description   string
}

// OptionRegistry returns the known config options in display order.
func OptionRegistry() []OptionMetadata {
	defaults := DefaultResolvedConfig()

	return []OptionMetadata{
		newStringOption(
			keyAPIBaseURL,
			"API Base URL",
			defaults.API.BaseURL,
			"Base URL of the incident management API",
		),
		newStringOption(
			keyAPITokenEnv,
			"API Token Variable",
			defaults.API.TokenEnv,
			"Environment variable holding the API bearer token",
		),
		newIntOption(
			keyAPITimeoutSeconds,
			"API Timeout (seconds)",
			defaults.API.TimeoutSeconds,
			MinAPITimeoutSeconds,
			MaxAPITimeoutSeconds,
			"Per-request timeout for API calls",
		),
		newEnumOption(
			keyExportFormat,
			"Export Format",
			defaults.Export.Format,
			exportFormats,
			"Default format for causa export",
		),
		newEnumOption(
			keyExportLocale,
			"Export Locale",
			defaults.Export.Locale,
			exportLocales,
			"Language for labels and RUT messages",
		),
		newEnumOption(
			keyLoggingLevel,
			"Log Level",
			defaults.Logging.Level,
			loggingLevels,
			"Minimum level written to stderr",
		),
		newEnumOption(
			keyLoggingFormat,
			"Log Format",
			defaults.Logging.Format,
			loggingFormats,
			"console for humans, json for log collectors",
		),
	}
}

// LookupOption finds an option by its dotted key path.
func LookupOption(keyPath string) (OptionMetadata, bool) {
	for _, option := range OptionRegistry() {
		if option.KeyPath == keyPath {
			return option, true
		}
	}
	return OptionMetadata{}, false
}

// ParseOptionValue converts command-line text into a value for keyPath,
// rejecting unknown keys, non-integers, out-of-range integers and values
// outside an enum's choices.
func ParseOptionValue(keyPath string, text string) (RawOptionValue, error) {
	option, ok := LookupOption(keyPath)
	if !ok {
		return RawOptionValue{}, fmt.Errorf("unknown config key %q", keyPath)
	}
	text = strings.TrimSpace(text)

	switch option.Type {
	case OptionTypeInt:
		v, err := strconv.Atoi(text)
		if err != nil {
			return RawOptionValue{}, fmt.Errorf("config key %q expects an integer, got %q", keyPath, text)
		}
		if option.Bounds != nil && (v < option.Bounds.Min || v > option.Bounds.Max) {
			return RawOptionValue{}, fmt.Errorf("config key %q must be between %d and %d", keyPath, option.Bounds.Min, option.Bounds.Max)
		}
		return RawOptionValue{Int: &v}, nil
	case OptionTypeEnum:
		v := strings.ToLower(text)
		for _, c := range option.Choices {
			if v == c {
				return RawOptionValue{String: &v}, nil
			}
		}
		return RawOptionValue{}, fmt.Errorf("config key %q must be one of %s", keyPath, strings.Join(option.Choices, ", "))
	default:
		if text == "" {
			return RawOptionValue{}, fmt.Errorf("config key %q expects a non-empty value", keyPath)
		}
		return RawOptionValue{String: &text}, nil
	}
}

func newIntOption(keyPath string, displayName string, defaultValue int, min int, max int, description string) OptionMetadata {
	return OptionMetadata{
		KeyPath:     keyPath,
		DisplayName: displayName,
		Type:        OptionTypeInt,
		DefaultInt:  defaultValue,
		Bounds: &IntBounds{
			Min: min,
			Max: max,
		},
		Description: description,
	}
}

func newStringOption(keyPath string, displayName string, defaultValue string, description string) OptionMetadata {
	return OptionMetadata{
		KeyPath:       keyPath,
		DisplayName:   displayName,
		Type:          OptionTypeString,
		DefaultString: defaultValue,
		Description:   description,
	}
}

func newEnumOption(keyPath string, displayName string, defaultValue string, choices []string, description string) OptionMetadata {
	return OptionMetadata{
		KeyPath:       keyPath,
		DisplayName:   displayName,
		Type:          OptionTypeEnum,
		DefaultString: defaultValue,
		Choices:       choices,
		Description:   description,
	}
}
