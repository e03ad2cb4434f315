// Package server wires the GophDocs server together: configuration,
// the document repository (PostgreSQL or in memory), optional S3 blob
// storage, metrics, and the HTTP and gRPC front ends. It runs until a
// termination signal arrives and then shuts everything down gracefully.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/dmitrijs2005/gophdocs/internal/server/config"
	"github.com/dmitrijs2005/gophdocs/internal/server/httpapi"
	"github.com/dmitrijs2005/gophdocs/internal/server/metrics"
	"github.com/dmitrijs2005/gophdocs/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdocs/internal/server/services"
	"github.com/dmitrijs2005/gophdocs/internal/server/storage"

	gs "github.com/dmitrijs2005/gophdocs/internal/server/grpc"
)

// newBlobStore is a test seam over the S3 client construction.
var newBlobStore = func(ctx context.Context, c storage.S3Config) (storage.BlobStore, error) {
	return storage.NewS3Store(ctx, c)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	manager  *repomanager.Manager
	metrics  *metrics.Metrics
	docs     *services.DocumentService
	shutdown sync.Once
}

// NewApp opens storage and builds the services. The caller must call Run,
// which releases the storage on exit.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSON(os.Stdout, level)

	m, err := metrics.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	var blobs storage.BlobStore
	if c.S3Bucket != "" {
		blobs, err = newBlobStore(ctx, storage.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("blob storage init error: %w", err)
		}
		logger.Info(ctx, "Document content offloaded to S3", "bucket", c.S3Bucket)
	}

	mgr, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database configured, documents are kept in memory")
	}

	return &App{
		config:  c,
		logger:  logger,
		manager: mgr,
		metrics: m,
		docs:    services.NewDocumentService(mgr.Documents(), blobs, m, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {
	s := httpapi.NewServer(app.config.HTTPAddr, app.docs, app.metrics, app.logger)
	s.ShutdownTimeout = app.config.ShutdownTimeout
	return s.Run(ctx)
}

func (app *App) startGRPCServer(ctx context.Context) error {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.docs, app.metrics)
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. A failing server stops the others; its error is
// returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "Server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.startHTTPServer)
	if app.config.GRPCAddr != "" {
		start("grpc", app.startGRPCServer)
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		errs = append(errs, err)
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}

// Close releases the storage. It is safe to call more than once.
func (app *App) Close() error {
	var err error
	app.shutdown.Do(func() {
		err = app.manager.Close()
	})
	return err
}
