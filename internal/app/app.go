package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/data/db"
	"github.com/yungbote/lnd-backend/internal/http"
	"github.com/yungbote/lnd-backend/internal/jobs"
	"github.com/yungbote/lnd-backend/internal/jobs/scheduler"
	"github.com/yungbote/lnd-backend/internal/observability"
	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
	"github.com/yungbote/lnd-backend/internal/platform/sendgrid"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log       *logger.Logger
	DB        *gorm.DB
	Cfg       Config
	Repos     Repos
	Services  Services
	Scheduler *scheduler.Scheduler
	Server    *http.Server
	Metrics   *observability.Metrics

	otelShutdown func(context.Context) error
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
	cfg := LoadConfig(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(log))
	metrics := observability.NewMetrics()

	theDB, err := db.Open(log, strings.ToLower(cfg.DBDriver), cfg.SQLitePath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	storeCfg := objectstore.ConfigFromEnv(log)
	if storeCfg.Mode == "" {
		storeCfg.Mode = objectstore.ModeLocal
	}
	store, err := resolveCertificateStore(ctx, log, storeCfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	clk := clock.New()
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(serviceDeps{
		DB:      theDB,
		Log:     log,
		Cfg:     cfg,
		Clock:   clk,
		Repos:   reposet,
		Mailer:  sendgrid.NewFromEnv(log),
		Store:   store,
		Metrics: metrics,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("wire services: %w", err)
	}

	registry, err := jobs.NewRegistry(serviceset.Reminder, serviceset.Badge, clk)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("job registry: %w", err)
	}
	sched := scheduler.New(log, scheduler.ConfigFromEnv(log), registry, reposet.JobRun, metrics, clk)

	handlerset := wireHandlers(log, theDB, metrics, serviceset, reposet, sched)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, storeCfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Scheduler:    sched,
		Server:       server,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start registers the scheduled jobs. It does not block.
func (a *App) Start() error {
	if a == nil || a.Scheduler == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Scheduler.Start()
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts the
// server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + strings.TrimPrefix(a.Cfg.Port, ":")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", addr)
		return a.Server.Run(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(ctx); err != nil && a.Log != nil {
			a.Log.Warn("scheduler stop", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
