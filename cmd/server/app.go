package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardforge/internal/api"
	"cardforge/internal/config"
	"cardforge/internal/events"
	"cardforge/internal/exporter"
	"cardforge/internal/generation"
	"cardforge/internal/history"
	"cardforge/internal/normalizer"
	"cardforge/internal/platform/gemini"
	"cardforge/internal/settings"
	"cardforge/internal/task"
	"cardforge/internal/template"
)

const shutdownTimeout = 10 * time.Second

// application holds the wired components of the server. Construction
// happens once in newApplication; Run owns the process lifecycle.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *template.Registry
	watcher  *template.Watcher
	emitter  *events.InMemoryEmitter
	queue    *task.Queue
	pool     *task.WorkerPool
	history  *history.Store
	settings *settings.Service
	router   http.Handler
}

// newApplication wires the generation pipeline and HTTP surface from the
// loaded configuration.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	registry := template.NewRegistry(logger)
	var watcher *template.Watcher
	if dir := cfg.Store.TemplateDir; dir != "" {
		if err := template.LoadDir(registry, dir); err != nil {
			return nil, fmt.Errorf("load templates from %s: %w", dir, err)
		}
		watcher = template.NewWatcher(registry, dir, logger)
	}

	client, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	generator, err := generation.NewCachedGenerator(client, cfg.LLM.CacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("create completion cache: %w", err)
	}

	prompts := generation.NewPromptBuilder()
	if path := cfg.LLM.PromptTemplatePath; path != "" {
		prompts, err = generation.NewPromptBuilderFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load prompt template from %s: %w", path, err)
		}
	}

	hist, err := history.Open(cfg.Store.HistoryPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	settingsSvc, err := settings.NewService(cfg.Store.SettingsPath, logger)
	if err != nil {
		_ = hist.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	emitter := events.NewInMemoryEmitter(logger)
	orch := generation.NewOrchestrator(
		generator,
		prompts,
		normalizer.New(logger),
		registry,
		exporter.New(logger),
		emitter,
		hist,
		generation.Config{
			DefaultCardCount: cfg.Generation.DefaultCardCount,
			DefaultTemplate:  cfg.Generation.DefaultTemplate,
			DefaultFormats:   cfg.Export.ParsedFormats(),
			ExportDirectory:  cfg.Export.Directory,
		},
		logger,
	)
	orch.SetSettingsSource(settingsSvc)
	client.SetParamsResolver(func() gemini.Params {
		snap := settingsSvc.Current()
		return gemini.Params{
			Model:       snap.ModelName,
			Temperature: snap.Temperature,
			MaxTokens:   snap.MaxTokens,
		}
	})

	queue := task.NewQueue(cfg.Generation.QueueSize, logger)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{
		WorkerCount: cfg.Generation.WorkerCount,
	}, logger)
	pool.SetErrorHandler(func(tk task.Task, err error) {
		logger.Error("task failed",
			"task_id", tk.ID(),
			"task_type", tk.Type(),
			"error", err)
	})

	router := api.NewRouter(api.Handlers{
		Generate: api.NewGenerateHandler(orch, queue, logger),
		Template: api.NewTemplateHandler(registry, logger),
		Settings: api.NewSettingsHandler(settingsSvc, logger),
		History:  api.NewHistoryHandler(hist, logger),
		Progress: api.NewProgressHandler(emitter, logger),
	})

	return &application{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		watcher:  watcher,
		emitter:  emitter,
		queue:    queue,
		pool:     pool,
		history:  hist,
		settings: settingsSvc,
		router:   router,
	}, nil
}

// Run starts the workers and the HTTP server, then blocks until the
// context is cancelled or a termination signal arrives.
func (app *application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.pool.Start()

	if app.watcher != nil {
		go func() {
			if err := app.watcher.Run(ctx); err != nil {
				app.logger.Warn("template watcher stopped", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "port", app.cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	select {
	case sig := <-shutdownCh:
		app.logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		app.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		app.logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
	}

	app.cleanup()
	return nil
}

// cleanup stops the workers and releases held resources. Queued tasks
// that have not started are dropped; running tasks finish first.
func (app *application) cleanup() {
	app.queue.Close()
	app.pool.Stop()
	app.pool.Wait()

	if err := app.history.Close(); err != nil {
		app.logger.Warn("history store close failed", "error", err)
	}
}
