// Package config loads and saves ~/.guruji/config.yaml and resolves the API key
// from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/guruji/assets"
	appconfig "github.com/doeshing/guruji/internal/application/config"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/pkg/filesystem"
	"github.com/doeshing/guruji/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "GURUJI_CONFIG"

// FileLoader loads YAML configuration from ~/.guruji/config.yaml (overridable via GURUJI_CONFIG).
type FileLoader struct {
	overridePath string
	dotenvFiles  []string
	lookupEnv    func(string) (string, bool)

	dotenvOnce sync.Once
}

// Option customises a FileLoader.
type Option func(*FileLoader)

// WithDotenv sets the .env files loaded before the environment is read.
// Missing files are ignored.
func WithDotenv(paths ...string) Option {
	return func(l *FileLoader) { l.dotenvFiles = paths }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *FileLoader) { l.lookupEnv = fn }
}

// NewFileLoader builds a new loader. An empty path means the default location.
func NewFileLoader(path string, opts ...Option) *FileLoader {
	l := &FileLoader{
		overridePath: path,
		dotenvFiles:  []string{".env"},
		lookupEnv:    os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	l.dotenvOnce.Do(l.loadDotenv)

	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := writeDefault(path); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = hydrateDefaults(cfg)
	if err := appconfig.Validate(cfg); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.API.APIKey = l.resolveAPIKey(cfg)
	return cfg, nil
}

// Save writes cfg back to the config file. The API key is never persisted.
func (l *FileLoader) Save(cfg domain.Config) error {
	if err := appconfig.Validate(cfg); err != nil {
		return err
	}
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Path returns the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom, ok := l.lookupEnv(EnvConfigPath); ok && custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func (l *FileLoader) loadDotenv() {
	for _, path := range l.dotenvFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// gotenv.Load never overrides variables already set in the environment.
		_ = gotenv.Load(path)
	}
}

func (l *FileLoader) resolveAPIKey(cfg domain.Config) string {
	for _, name := range []string{cfg.GetKeyEnvVar(), domain.DefaultAPIKeyEnvVar, domain.LegacyAPIKeyEnvVar} {
		if value, ok := l.lookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string) error {
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// DefaultConfig returns the embedded defaults, hydrated.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return hydrateDefaults(cfg)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.API.KeyEnvVar == "" {
		cfg.API.KeyEnvVar = domain.DefaultAPIKeyEnvVar
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = domain.DefaultBaseURL
	}
	if cfg.API.PrimaryModel == "" {
		cfg.API.PrimaryModel = domain.DefaultPrimaryModel
	}
	if cfg.API.FallbackModels == nil {
		cfg.API.FallbackModels = append([]string(nil), domain.DefaultFallbackModels...)
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = int(domain.DefaultHTTPClientTimeout.Seconds())
	}
	if cfg.Generation == (domain.GenerationConfig{}) {
		cfg.Generation = domain.GenerationConfig{
			Temperature:     domain.DefaultTemperature,
			TopK:            domain.DefaultTopK,
			TopP:            domain.DefaultTopP,
			MaxOutputTokens: domain.DefaultMaxOutputTokens,
		}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = domain.StorageBackendSQLite
	}
	if cfg.Storage.HistoryKey == "" {
		cfg.Storage.HistoryKey = domain.DefaultHistoryKey
	}
	if cfg.Storage.ThemeKey == "" {
		cfg.Storage.ThemeKey = domain.DefaultThemeKey
	}
	if cfg.Storage.HistoryLimit == 0 {
		cfg.Storage.HistoryLimit = domain.DefaultHistoryLimit
	}
	if cfg.Defaults.Mode == "" {
		cfg.Defaults.Mode = domain.ModeReview
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = domain.LanguageJavaScript
	}
	if cfg.Defaults.Difficulty == "" {
		cfg.Defaults.Difficulty = domain.DifficultyIntermediate
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
