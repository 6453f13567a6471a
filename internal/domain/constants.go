package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Gemini API defaults
const (
	DefaultAPIKeyEnvVar      = "GEMINI_API_KEY"
	LegacyAPIKeyEnvVar       = "REACT_APP_GEMINI_API_KEY"
	DefaultBaseURL           = "https://generativelanguage.googleapis.com/v1beta"
	DefaultPrimaryModel      = "gemini-1.5-flash"
	DefaultHTTPClientTimeout = 60 * time.Second
)

// DefaultFallbackModels is the REST fallback chain, tried in order.
var DefaultFallbackModels = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}

// Generation defaults
const (
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 2048
)

// Storage defaults
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendFile   = "file"
	DefaultHistoryKey    = "code_guruji_history"
	DefaultThemeKey      = "code_guruji_theme"
	// DefaultHistoryLimit is the retention cap applied on insert
	DefaultHistoryLimit = 50
)

// Connectivity check
const (
	ConnectionTestPrompt = "Say hello and confirm the API is working"
)

// DefaultServerAddr is where `guruji serve` listens.
const DefaultServerAddr = "127.0.0.1:8080"

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// ExportDateFormat is used in export file names
	ExportDateFormat = "2006-01-02"
)
