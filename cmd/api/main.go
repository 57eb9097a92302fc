package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/jasperlim/tracelink-backend/api/routes"
	"github.com/jasperlim/tracelink-backend/internal/auth"
	"github.com/jasperlim/tracelink-backend/internal/inventory"
	"github.com/jasperlim/tracelink-backend/internal/movements"
	"github.com/jasperlim/tracelink-backend/internal/receiving"
	"github.com/jasperlim/tracelink-backend/internal/users"
	"github.com/jasperlim/tracelink-backend/pkg/auth/session"
	"github.com/jasperlim/tracelink-backend/pkg/config"
	"github.com/jasperlim/tracelink-backend/pkg/db"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
	"github.com/jasperlim/tracelink-backend/pkg/metrics"
	"github.com/jasperlim/tracelink-backend/pkg/migrate"
	pkgoutbox "github.com/jasperlim/tracelink-backend/pkg/outbox"
	"github.com/jasperlim/tracelink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	receiveMetrics := metrics.NewReceiveMetrics(registry)

	caseRepo := receiving.NewRepository(dbClient.DB())
	outboxService := pkgoutbox.NewService(pkgoutbox.NewRepository(dbClient.DB()), logg)

	receivingService, err := receiving.NewService(receiving.ServiceParams{
		CaseRepo:      caseRepo,
		InventoryRepo: inventory.NewRepository(dbClient.DB()),
		Events:        receiving.NewOutboxEmitter(outboxService, dbClient.DB()),
		Metrics:       receiveMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create receiving service", err)
		os.Exit(1)
	}

	statusService := receiving.NewStatusService(caseRepo, cfg.Warehouse.HeartbeatStaleAfter, 0)

	exportService, err := movements.NewExportService(movements.NewRepository(dbClient.DB()), cfg.Warehouse.ExportMaxRows)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			SessionChecker:   sessionManager,
			AuthService:      authService,
			ReceivingService: receivingService,
			StatusService:    statusService,
			ExportService:    exportService,
			MetricsGatherer:  registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		closeErr = multierr.Append(closeErr, redisClient.Close())
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
