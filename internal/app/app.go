package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskHelper/internal/config"
	"taskHelper/internal/handlers"
	"taskHelper/internal/logger"
	"taskHelper/internal/provider"
	"taskHelper/internal/repository/task/inmemory"
	"taskHelper/internal/repository/task/postgres"
	"taskHelper/internal/repository/task/sqlite"
	"taskHelper/internal/service"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     http.Handler
	repository service.TaskRepository
	handler    *handlers.TaskHandler
	closers    map[string]gfshutdown.Operation
}

func New(cfg *config.Config) *App {
	return &App{
		config:  cfg,
		closers: make(map[string]gfshutdown.Operation),
	}
}

// Init builds the store, providers, services and HTTP server. Options are
// passed to the services.
func (a *App) Init(ctx context.Context, opts ...service.Option) error {
	repo, err := a.initRepository(ctx)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	a.repository = repo

	completer, images, err := a.initProviders(ctx)
	if err != nil {
		return fmt.Errorf("init providers: %w", err)
	}

	a.handler = handlers.NewTaskHandler(
		service.NewTaskService(repo, opts...),
		service.NewEnhanceService(repo, completer, opts...),
		service.NewImageService(repo, images, opts...),
	)
	a.router = NewRouter(a.handler, a.config)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "taskhelper"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	a.closers["http-server"] = a.server.Shutdown

	logger.Info("App: initialised",
		zap.String("repository", a.config.Repository.Type),
		zap.String("llm_provider", a.config.LLM.Provider),
		zap.String("image_provider", a.config.Image.Provider))
	return nil
}

func (a *App) initRepository(ctx context.Context) (service.TaskRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:        int32(a.config.Database.MaxConnections),
			MinConns:        int32(a.config.Database.MinConnections),
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, err
		}
		a.closers["postgres"] = func(context.Context) error {
			storage.Close()
			return nil
		}
		return storage, nil

	case "sqlite":
		storage, err := sqlite.New(a.config.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers["sqlite"] = func(context.Context) error {
			return storage.Close()
		}
		return storage, nil

	default:
		logger.Info("App: using in-memory repository")
		return inmemory.NewTaskStorage(), nil
	}
}

func (a *App) initProviders(ctx context.Context) (provider.Completer, provider.ImageGenerator, error) {
	var gemini *provider.Gemini
	if a.config.LLM.Provider == "gemini" || a.config.Image.Provider == "gemini" {
		var err error
		gemini, err = provider.NewGemini(ctx, a.config.LLM.APIKey, a.config.LLM.Model, a.config.Image.Model)
		if err != nil {
			return nil, nil, err
		}
	}

	var completer provider.Completer = provider.NewMockCompleter()
	if a.config.LLM.Provider == "gemini" {
		completer = gemini
	}

	var images provider.ImageGenerator = provider.NewPlaceholder()
	if a.config.Image.Provider == "gemini" {
		images = gemini
	}
	return completer, images, nil
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP until the server is shut down.
func (a *App) Run() error {
	logger.Info("App: server listening", zap.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ShutdownOperations lists the named cleanup steps for graceful shutdown.
func (a *App) ShutdownOperations() map[string]gfshutdown.Operation {
	ops := make(map[string]gfshutdown.Operation, len(a.closers)+1)
	for name, op := range a.closers {
		ops[name] = op
	}
	ops["logger"] = func(context.Context) error {
		logger.Sync()
		return nil
	}
	return ops
}
