package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/hatebu/internal/config"
	"github.com/MrSnakeDoc/hatebu/internal/httpserver"
	"github.com/MrSnakeDoc/hatebu/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
	"github.com/MrSnakeDoc/hatebu/internal/scheduler"
	"github.com/MrSnakeDoc/hatebu/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	backend  *Backend
	server   *httpserver.Server
	importer *scheduler.Importer // nil when HATEBU_IMPORT_FILE is unset
}

// New wires the application from the environment.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	return NewWithConfig(ctx, cfg, loggerClient)
}

// NewWithConfig wires the application from an explicit config.
func NewWithConfig(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("bookmark store ready",
		logger.String("store", cfg.Store),
		logger.String("timezone", cfg.Timezone),
		logger.String("id_mode", cfg.IDMode))

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		StoreName:    cfg.Store,
		Store:        backend.Store,
		Bookmarks:    backend.Repository,
		PingTimeout:  cfg.RedisPingTimeout,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CORSOrigins:  cfg.CORSOrigins,
	}

	var importer *scheduler.Importer
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing importer",
			logger.String("file", cfg.ImportFile))
		trigger := make(chan struct{}, 1)
		importer = scheduler.NewImporter(
			cfg.ImportFile,
			backend.Repository,
			loggerClient.With(logger.String("component", "importer")),
			cfg.ImportInterval,
			trigger,
		)
		d.Importer = importer
		d.ImportTrigger = trigger
	} else {
		loggerClient.Info("import file not configured, import disabled")
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		backend:  backend,
		server:   httpserver.New(cfg.ListenPort, d),
		importer: importer,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a component fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.RunContext(ctx)
}

// RunContext serves until ctx is done or a component fails, then shuts
// everything down.
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s on %s", version.String(), a.cfg.ListenPort)

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			a.closeBackend()
			return fmt.Errorf("failed to start importer: %w", err)
		}
		a.logger.Info("importer started", logger.Duration("interval", a.cfg.ImportInterval))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		if a.importer != nil {
			a.importer.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.closeBackend()
	if err != nil {
		return err
	}

	a.logger.Info("✅ hatebu stopped cleanly")
	return nil
}

func (a *App) closeBackend() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("failed to close store", logger.Error(err))
		return
	}
	a.logger.Info("✅ store closed cleanly")
}
