package config

const (
	SchemaVersion = 1

	DefaultAPITokenEnv       = "CAUSA_API_TOKEN"
	DefaultAPITimeoutSeconds = 30
	DefaultExportFormat      = "markdown"
	DefaultExportLocale      = "es"
	DefaultLoggingLevel      = "warn"
	DefaultLoggingFormat     = "console"

	MinAPITimeoutSeconds = 1
	MaxAPITimeoutSeconds = 300
)

var (
	exportFormats  = []string{"markdown", "html", "csv", "text", "json", "yaml"}
	exportLocales  = []string{"es", "en"}
	loggingLevels  = []string{"debug", "info", "warn", "error"}
	loggingFormats = []string{"console", "json"}
)

type RawConfig struct {
	SchemaVersion *int        `json:"schemaVersion,omitempty"`
	API           *RawAPI     `json:"api,omitempty"`
	Export        *RawExport  `json:"export,omitempty"`
	Logging       *RawLogging `json:"logging,omitempty"`
}

type RawAPI struct {
	BaseURL        *string `json:"baseUrl,omitempty"`
	TokenEnv       *string `json:"tokenEnv,omitempty"`
	TimeoutSeconds *int    `json:"timeoutSeconds,omitempty"`
}

type RawExport struct {
	Format *string `json:"format,omitempty"`
	Locale *string `json:"locale,omitempty"`
}

type RawLogging struct {
	Level  *string `json:"level,omitempty"`
	Format *string `json:"format,omitempty"`
}

type ResolvedConfig struct {
	SchemaVersion int             `json:"schemaVersion"`
	API           ResolvedAPI     `json:"api"`
	Export        ResolvedExport  `json:"export"`
	Logging       ResolvedLogging `json:"logging"`
}

type ResolvedAPI struct {
	BaseURL        string `json:"baseUrl"`
	TokenEnv       string `json:"tokenEnv"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type ResolvedExport struct {
	Format string `json:"format"`
	Locale string `json:"locale"`
}

type ResolvedLogging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func DefaultResolvedConfig() ResolvedConfig {
	return ResolvedConfig{
		SchemaVersion: SchemaVersion,
		API: ResolvedAPI{
			BaseURL:        "",
			TokenEnv:       DefaultAPITokenEnv,
			TimeoutSeconds: DefaultAPITimeoutSeconds,
		},
		Export: ResolvedExport{
			Format: DefaultExportFormat,
			Locale: DefaultExportLocale,
		},
		Logging: ResolvedLogging{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
	}
}
