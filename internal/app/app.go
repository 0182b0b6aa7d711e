package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/data/db"
	"github.com/yungbote/speaking-practice-backend/internal/http"
	"github.com/yungbote/speaking-practice-backend/internal/observability"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/shutdown"
	"github.com/yungbote/speaking-practice-backend/internal/services"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	LoadDotEnv(log)
	cfg := LoadConfig(log)
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	metrics := observability.Init(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     Version,
	})

	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	reposet := wireRepos(theDB, log)
	if cfg.SeedQuestions {
		if _, err := services.SeedQuestions(ctx, log, reposet.Question, cfg.QuestionSeedPath); err != nil {
			log.Sync()
			return nil, fmt.Errorf("seed questions: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		_ = clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset, err := wireHandlers(log, theDB, cfg, serviceset)
	if err != nil {
		_ = clients.Close()
		log.Sync()
		return nil, fmt.Errorf("wire handlers: %w", err)
	}
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, otelShutdown != nil, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background collectors. Calling it twice is a no-op.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", addr)
		errCh <- a.Server.Run(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.Log.Info("Shutting down HTTP server")
		drainCtx, cancel := shutdown.Grace(ctx, shutdown.DefaultGrace)
		defer cancel()
		if err := a.Server.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return <-errCh
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	var errs []error
	if err := a.Clients.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close clients: %w", err))
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
		cancel()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil && a.Log != nil {
		a.Log.Warn("Shutdown finished with errors", "error", err)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
