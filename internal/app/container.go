package app

import (
	"context"
	"os"
	"strings"

	"github.com/doeshing/guruji/internal/application/analysis"
	"github.com/doeshing/guruji/internal/application/doctor"
	"github.com/doeshing/guruji/internal/application/history"
	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/infrastructure/ai"
	"github.com/doeshing/guruji/internal/infrastructure/config"
	"github.com/doeshing/guruji/internal/infrastructure/metrics"
	"github.com/doeshing/guruji/internal/infrastructure/server"
	"github.com/doeshing/guruji/internal/infrastructure/storage"
	"github.com/doeshing/guruji/internal/pkg/logger"
	"github.com/doeshing/guruji/internal/ports"
)

// EnvDebug forces debug logging when set to 1 or true.
const EnvDebug = "GURUJI_DEBUG"

// Options controls how the container is built.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config          domain.Config
	ConfigLoader    *config.FileLoader
	Logger          ports.Logger
	Store           ports.KeyValueStore
	HistoryService  *history.Service
	AnalysisService *analysis.Service
	DoctorService   *doctor.Service
	Metrics         *metrics.Metrics
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: opts.Verbose || DebugFromEnv(),
	})

	store, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	historyService := history.NewService(store, history.Options{
		HistoryKey: cfg.Storage.HistoryKey,
		ThemeKey:   cfg.Storage.ThemeKey,
		Limit:      cfg.GetHistoryLimit(),
	}, log).WithMetrics(m)

	analysisService := &analysis.Service{
		ConfigProvider:  cfgLoader,
		ProviderFactory: ai.NewFactory(nil),
		Recorder:        historyService,
		Metrics:         m,
		Logger:          log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          store,
		History:        historyService,
		Connection:     analysisService,
	}

	if !cfg.HasAPIKey() {
		log.Warn("no API key configured; analyses will fail until one is set", map[string]interface{}{
			"env": cfg.GetKeyEnvVar(),
		})
	}

	return &Container{
		Config:          cfg,
		ConfigLoader:    cfgLoader,
		Logger:          log,
		Store:           store,
		HistoryService:  historyService,
		AnalysisService: analysisService,
		DoctorService:   doctorService,
		Metrics:         m,
	}, nil
}

// NewServer builds the HTTP API over the container's services.
func (c *Container) NewServer() *server.Server {
	opts := server.Options{
		Analyzer: c.AnalysisService,
		History:  c.HistoryService,
		Theme:    c.HistoryService,
		Logger:   c.Logger,
	}
	if c.Metrics != nil {
		opts.Metrics = c.Metrics
	}
	return server.New(opts)
}

// Close releases the key-value store.
func (c *Container) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// DebugFromEnv reports whether GURUJI_DEBUG asks for debug logging.
func DebugFromEnv() bool {
	v := strings.TrimSpace(os.Getenv(EnvDebug))
	return strings.EqualFold(v, "1") || strings.EqualFold(v, "true")
}
