// Package server wires the todo service together: object store, photo
// manager, HTTP API and gRPC health endpoint. It also owns signal-driven
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/todophotos/internal/logging"
	"github.com/dmitrijs2005/todophotos/internal/server/config"
	"github.com/dmitrijs2005/todophotos/internal/server/images"
	"github.com/dmitrijs2005/todophotos/internal/server/metrics"
	"github.com/dmitrijs2005/todophotos/internal/server/photos"
	"github.com/dmitrijs2005/todophotos/internal/server/storage"
	"github.com/dmitrijs2005/todophotos/internal/server/todos"

	gs "github.com/dmitrijs2005/todophotos/internal/server/grpc"
	hs "github.com/dmitrijs2005/todophotos/internal/server/http"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *hs.Server
	grpcServer *gs.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	m, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	store, err := storage.New(ctx, storage.S3Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}
	observer, err := storage.NewPrometheusObserver(metrics.Namespace, m.Registry)
	if err != nil {
		return nil, fmt.Errorf("object store metrics init error: %w", err)
	}
	store = storage.NewInstrumented(store, observer)

	if !store.IsConfigured() {
		logger.Warn(ctx, "S3 bucket not set, photo storage disabled")
	}

	registry := todos.NewRegistry(c.SeedTodos...)
	manager := photos.NewManager(registry, store, images.NewNormalizer(), logger,
		photos.WithURLTTL(c.PhotoURLTTL),
		photos.WithRecorder(m),
	)

	env := hs.EnvironmentInfo{
		Name:              c.Environment,
		StorageConfigured: store.IsConfigured(),
		Bucket:            c.S3Bucket,
	}
	handler := hs.NewHandler(registry, manager, env, logger)

	return &App{
		config:     c,
		logger:     logger,
		httpServer: hs.NewServer(c.EndpointAddrHTTP, hs.NewRouter(handler, m.Handler()), logger),
		grpcServer: gs.NewServer(c.EndpointAddrGRPC, logger, store.IsConfigured()),
	}, nil
}

// shutdownSignals cancel Run.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or one
// of the servers fails; the first failure stops the other server.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.httpServer.Run(ctx)
	})
	g.Go(func() error {
		return app.grpcServer.Run(ctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return err
}
