package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"brandmonitor/internal/aggregate"
	"brandmonitor/internal/collector"
	"brandmonitor/internal/config"
	"brandmonitor/internal/domain"
	"brandmonitor/internal/httpapi"
	"brandmonitor/internal/logging"
	"brandmonitor/internal/vocab"
)

// Application wires configs to components and owns the server lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	store  *vocab.Store
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store := vocab.NewStore(
		cfg.Vocabulary.Path,
		baseLogger.With("component", "vocab"),
		vocab.WithExporter(&vocab.GoExporter{}, cfg.Vocabulary.ExportPath),
	)

	registry := collector.NewRegistry()
	if !cfg.Collectors.Dcard.Disabled {
		registry.Register(collector.NewDcard(nil, cfg.Collectors.Dcard.Forums,
			baseLogger.With("component", "collector.dcard")))
	}
	if cfg.Collectors.SerpAPI.APIKey != "" {
		registry.Register(collector.NewSerpAPI(cfg.Collectors.SerpAPI.APIKey, nil,
			baseLogger.With("component", "collector.serpapi")))
	}
	if !cfg.Collectors.Google.Disabled {
		registry.Register(collector.NewGoogle(nil,
			baseLogger.With("component", "collector.google")))
	}

	group := collector.NewGroup(registry,
		cfg.Collectors.CollectorTimeout,
		cfg.Collectors.BatchTimeout,
		baseLogger.With("component", "collector.group"))

	aggregator := aggregate.New(store, baseLogger.With("component", "aggregator"))
	api := httpapi.NewServer(store, aggregator, group, baseLogger.With("component", "httpapi"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		store:  store,
		server: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: api.Handler(),
		},
	}
}

// Run seeds the vocabulary on first boot and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.seedVocabulary()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// seedVocabulary writes the starter document when none exists yet. Any other
// load failure is left for request time so the admin API can report it.
func (a *Application) seedVocabulary() {
	_, err := a.store.Load()
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return
	}

	a.logger.Info("seeding default vocabulary", "path", a.cfg.Vocabulary.Path)
	if err := a.store.Save(vocab.Default(a.cfg.Vocabulary.Maintainer)); err != nil {
		a.logger.Error("vocabulary seed failed", "error", err)
	}
}
