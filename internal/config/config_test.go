package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	restore := SetUserHomeDirForTest(func() (string, error) {
		return home, nil
	})
	t.Cleanup(restore)
	return home
}

func writeConfig(t *testing.T, path string, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	project := RawConfig{
		API: &RawAPI{
			BaseURL:        strPtr("https://project.example.com"),
			TimeoutSeconds: intPtr(12),
		},
		Export: &RawExport{Format: strPtr("HTML")},
	}
	global := RawConfig{
		API: &RawAPI{
			BaseURL:  strPtr("https://global.example.com"),
			TokenEnv: strPtr("SSO_TOKEN"),
		},
		Export:  &RawExport{Format: strPtr("csv"), Locale: strPtr("en")},
		Logging: &RawLogging{Level: strPtr("debug")},
	}

	resolved := ResolveConfig(project, global)
	if resolved.API.BaseURL != "https://project.example.com" {
		t.Fatalf("baseUrl = %q", resolved.API.BaseURL)
	}
	if resolved.API.TokenEnv != "SSO_TOKEN" {
		t.Fatalf("tokenEnv = %q, want SSO_TOKEN", resolved.API.TokenEnv)
	}
	if resolved.API.TimeoutSeconds != 12 {
		t.Fatalf("timeout = %d, want 12", resolved.API.TimeoutSeconds)
	}
	if resolved.Export.Format != "html" {
		t.Fatalf("export format = %q, want html", resolved.Export.Format)
	}
	if resolved.Export.Locale != "en" {
		t.Fatalf("export locale = %q, want en", resolved.Export.Locale)
	}
	if resolved.Logging.Level != "debug" || resolved.Logging.Format != DefaultLoggingFormat {
		t.Fatalf("logging = %+v", resolved.Logging)
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	resolved := ResolveConfig(RawConfig{}, RawConfig{})
	if resolved != DefaultResolvedConfig() {
		t.Fatalf("resolved = %+v, want defaults", resolved)
	}
}

func TestResolveConfigClampsAndSkipsInvalid(t *testing.T) {
	project := RawConfig{
		API:     &RawAPI{TimeoutSeconds: intPtr(0), BaseURL: strPtr("   ")},
		Export:  &RawExport{Format: strPtr("docx")},
		Logging: &RawLogging{Format: strPtr("xml")},
	}
	global := RawConfig{
		API:     &RawAPI{BaseURL: strPtr("https://global.example.com")},
		Export:  &RawExport{Format: strPtr("yaml")},
		Logging: &RawLogging{Format: strPtr("JSON")},
	}

	resolved := ResolveConfig(project, global)
	if resolved.API.TimeoutSeconds != MinAPITimeoutSeconds {
		t.Fatalf("timeout = %d, want %d", resolved.API.TimeoutSeconds, MinAPITimeoutSeconds)
	}
	if resolved.API.BaseURL != "https://global.example.com" {
		t.Fatalf("blank project baseUrl should fall through, got %q", resolved.API.BaseURL)
	}
	if resolved.Export.Format != "yaml" {
		t.Fatalf("export format = %q, want yaml", resolved.Export.Format)
	}
	if resolved.Logging.Format != "json" {
		t.Fatalf("logging format = %q, want json", resolved.Logging.Format)
	}

	high := ResolveConfig(RawConfig{API: &RawAPI{TimeoutSeconds: intPtr(9999)}}, RawConfig{})
	if high.API.TimeoutSeconds != MaxAPITimeoutSeconds {
		t.Fatalf("timeout = %d, want %d", high.API.TimeoutSeconds, MaxAPITimeoutSeconds)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	home := withHome(t)
	project := t.TempDir()

	writeConfig(t, filepath.Join(home, ".causa", "config.json"), `{"schemaVersion":1,"api":{"baseUrl":"https://global.example.com","timeoutSeconds":45}}`)
	writeConfig(t, filepath.Join(project, ".causa", "config.json"), `{"api":{"timeoutSeconds":10},"export":{"locale":"en"}}`)

	cfg, err := LoadConfig(project)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "https://global.example.com" || cfg.API.TimeoutSeconds != 10 || cfg.Export.Locale != "en" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigIgnoresBrokenLayers(t *testing.T) {
	home := withHome(t)
	project := t.TempDir()

	writeConfig(t, filepath.Join(home, ".causa", "config.json"), `{"schemaVersion":2,"api":{"timeoutSeconds":45}}`)
	writeConfig(t, filepath.Join(project, ".causa", "config.json"), `{"api":`)

	cfg, err := LoadConfig(project)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultResolvedConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}

	res, err := ResolveSettings(project)
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}
	if len(res.LayerWarnings) != 2 {
		t.Fatalf("layer warnings = %+v, want 2", res.LayerWarnings)
	}
	if res.LayerWarnings[0] != (LayerWarning{Source: ConfigSourceLocal, Kind: LayerWarningInvalidJSON}) {
		t.Fatalf("local warning = %+v", res.LayerWarnings[0])
	}
	if res.LayerWarnings[1] != (LayerWarning{Source: ConfigSourceGlobal, Kind: LayerWarningUnsupportedSchema}) {
		t.Fatalf("global warning = %+v", res.LayerWarnings[1])
	}
}

func TestLoadConfigWithoutHome(t *testing.T) {
	restore := SetUserHomeDirForTest(func() (string, error) {
		return "", errors.New("no home")
	})
	t.Cleanup(restore)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultResolvedConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if _, ok := GlobalConfigPath(); ok {
		t.Fatalf("expected global path to be unavailable")
	}
}

func TestResolveSettingsSourcesAndWarnings(t *testing.T) {
	home := withHome(t)
	project := t.TempDir()

	writeConfig(t, filepath.Join(home, ".causa", "config.json"), `{"export":{"format":"csv"},"logging":{"level":"loud"}}`)
	writeConfig(t, filepath.Join(project, ".causa", "config.json"), `{"api":{"timeoutSeconds":900}}`)

	res, err := ResolveSettings(project)
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}

	timeout := res.Applied[keyAPITimeoutSeconds]
	if timeout.Source != ConfigSourceLocal || timeout.Value.Display() != "300" {
		t.Fatalf("timeout applied = %+v (%s)", timeout, timeout.Value.Display())
	}
	format := res.Applied[keyExportFormat]
	if format.Source != ConfigSourceGlobal || format.Value.Display() != "csv" {
		t.Fatalf("format applied = %+v", format)
	}
	level := res.Applied[keyLoggingLevel]
	if level.Source != ConfigSourceDefault || level.Value.Display() != DefaultLoggingLevel {
		t.Fatalf("level applied = %+v", level)
	}

	if len(res.OptionWarnings) != 2 {
		t.Fatalf("option warnings = %+v, want 2", res.OptionWarnings)
	}
	if w := res.OptionWarnings[0]; w.Kind != OptionWarningOutOfRange || w.ClampedInt == nil || *w.ClampedInt != 300 {
		t.Fatalf("first warning = %+v", w)
	}
	if w := res.OptionWarnings[1]; w.Kind != OptionWarningInvalidChoice || w.KeyPath != keyLoggingLevel || w.Source != ConfigSourceGlobal {
		t.Fatalf("second warning = %+v", w)
	}
	if len(res.Applied) != len(OptionRegistry()) {
		t.Fatalf("applied has %d keys, want %d", len(res.Applied), len(OptionRegistry()))
	}
}

func TestUpdateConfigValueRoundTrip(t *testing.T) {
	withHome(t)
	project := t.TempDir()
	path := ProjectConfigPath(project)

	value, err := ParseOptionValue(keyExportLocale, "EN")
	if err != nil {
		t.Fatalf("ParseOptionValue: %v", err)
	}
	if err := UpdateConfigValue(path, keyExportLocale, &value); err != nil {
		t.Fatalf("UpdateConfigValue: %v", err)
	}
	timeout, err := ParseOptionValue(keyAPITimeoutSeconds, "60")
	if err != nil {
		t.Fatalf("ParseOptionValue: %v", err)
	}
	if err := UpdateConfigValue(path, keyAPITimeoutSeconds, &timeout); err != nil {
		t.Fatalf("UpdateConfigValue: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"schemaVersion": 1`) || !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("unexpected file:\n%s", b)
	}

	cfg, err := LoadConfig(project)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Export.Locale != "en" || cfg.API.TimeoutSeconds != 60 {
		t.Fatalf("cfg = %+v", cfg)
	}

	if err := UpdateConfigValue(path, keyExportLocale, nil); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if err := UpdateConfigValue(path, keyAPITimeoutSeconds, nil); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected empty layer to remove file, stat err = %v", err)
	}
}

func TestParseOptionValueRejects(t *testing.T) {
	cases := []struct {
		key  string
		text string
	}{
		{key: "api.unknown", text: "x"},
		{key: keyAPITimeoutSeconds, text: "soon"},
		{key: keyAPITimeoutSeconds, text: "301"},
		{key: keyExportFormat, text: "docx"},
		{key: keyAPIBaseURL, text: "  "},
	}
	for _, tc := range cases {
		if _, err := ParseOptionValue(tc.key, tc.text); err == nil {
			t.Fatalf("ParseOptionValue(%q, %q) expected error", tc.key, tc.text)
		}
	}
}

func TestSaveConfigValuesRejectsMistypedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := SaveConfigValues(path, map[string]RawOptionValue{keyAPITimeoutSeconds: {String: strPtr("30")}}); err == nil {
		t.Fatalf("expected type error")
	}
	if err := SaveConfigValues(path, map[string]RawOptionValue{keyExportFormat: {Int: intPtr(1)}}); err == nil {
		t.Fatalf("expected type error")
	}
	if err := SaveConfigValues(path, map[string]RawOptionValue{"nope": {String: strPtr("x")}}); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if err := SaveConfigValues("", nil); err == nil {
		t.Fatalf("expected empty path error")
	}
}
