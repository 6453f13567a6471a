package domain

// Config mirrors ~/.guruji/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	API                 APISettings      `yaml:"api"`
	Generation          GenerationConfig `yaml:"generation"`
	Storage             StorageSettings  `yaml:"storage"`
	Defaults            AnalysisDefaults `yaml:"defaults"`
	Server              ServerSettings   `yaml:"server"`
	Logging             LoggingSettings  `yaml:"logging"`
}

// APISettings describes how the generation API is reached.
type APISettings struct {
	KeyEnvVar      string   `yaml:"key_env_var"`
	BaseURL        string   `yaml:"base_url"`
	PrimaryModel   string   `yaml:"primary_model"`
	FallbackModels []string `yaml:"fallback_models"`
	TimeoutSeconds int      `yaml:"timeout"`

	// APIKey is resolved from the environment at startup and never persisted.
	APIKey string `yaml:"-"`
}

// GenerationConfig carries the sampling parameters sent with every request.
type GenerationConfig struct {
	Temperature     float32 `yaml:"temperature" json:"temperature"`
	TopK            int     `yaml:"top_k" json:"topK"`
	TopP            float32 `yaml:"top_p" json:"topP"`
	MaxOutputTokens int     `yaml:"max_output_tokens" json:"maxOutputTokens"`
}

// StorageSettings selects and configures the local key-value store.
type StorageSettings struct {
	Backend      string `yaml:"backend"`
	Path         string `yaml:"path"`
	HistoryKey   string `yaml:"history_key"`
	ThemeKey     string `yaml:"theme_key"`
	HistoryLimit int    `yaml:"history_limit"`
}

// AnalysisDefaults are applied when the caller omits a value.
type AnalysisDefaults struct {
	Mode       Mode       `yaml:"mode"`
	Language   Language   `yaml:"language"`
	Difficulty Difficulty `yaml:"difficulty"`
}

// ServerSettings configures `guruji serve`.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// LoggingSettings configures the logrus backend.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
