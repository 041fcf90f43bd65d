package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qc-dashboard/internal/core/cache"
	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/database"
	"qc-dashboard/internal/core/events"
	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/core/proxy"
	"qc-dashboard/internal/core/server"
	attendanceadapter "qc-dashboard/internal/features/attendance/adapters"
	attendancehandler "qc-dashboard/internal/features/attendance/handler"
	attendanceservice "qc-dashboard/internal/features/attendance/service"
	bulkadapter "qc-dashboard/internal/features/bulkorders/adapters"
	bulkhandler "qc-dashboard/internal/features/bulkorders/handler"
	bulkservice "qc-dashboard/internal/features/bulkorders/service"
	reportadapter "qc-dashboard/internal/features/reports/adapters"
	reporthandler "qc-dashboard/internal/features/reports/handler"
	reportservice "qc-dashboard/internal/features/reports/service"
	techadapter "qc-dashboard/internal/features/technicians/adapters"
	techhandler "qc-dashboard/internal/features/technicians/handler"
	techservice "qc-dashboard/internal/features/technicians/service"
	workorderadapter "qc-dashboard/internal/features/workorders/adapters"
	workorderhandler "qc-dashboard/internal/features/workorders/handler"
	workorderservice "qc-dashboard/internal/features/workorders/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// @title QC Dashboard API
// @version 1.0
// @description Work-order quality-control backend integrating OptimoRoute.
// @contact.name API Support
// @contact.email support@qcdashboard.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	if err := run(cfg); err != nil {
		logger.Get().Error("Application failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run wires the application and serves until a signal arrives or the server fails.
// Every resource opened here is released before it returns.
func run(cfg *config.AppConfig) error {
	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		n, err := database.Migrate(ctx, pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		l.Info("Migrations applied", zap.Int("count", n))
	}

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("redis configuration: %w", err)
	}
	defer redisCache.Close()

	publisher := events.NewPublisher(cfg.Kafka)
	defer publisher.Close()

	// Initialize OptimoRoute adapter and run Health Check
	optimo := bulkadapter.NewOptimoRouteAdapter(cfg.OptimoRoute, proxy.FromConfig(cfg.Proxy))
	if err := optimo.HealthCheck(ctx); err != nil {
		l.Warn("OptimoRoute health check failed", zap.Error(err))
	} else {
		l.Info("OptimoRoute connection verified")
	}

	// Work orders
	workOrderSvc := workorderservice.NewWorkOrderService(workorderadapter.NewPostgresRepository(pool), publisher)
	workOrderHdl := workorderhandler.NewWorkOrderHandler(workOrderSvc)

	// Bulk orders
	fetcher := bulkservice.NewPageFetcher(
		optimo,
		bulkadapter.NewRedisCompletionCache(redisCache, cfg.OptimoRoute.CompletionCacheTTL()),
		cfg.OptimoRoute.CompletionBatch,
	)
	bulkSvc := bulkservice.NewBulkOrderService(
		fetcher,
		bulkadapter.NewRedisSessionRepository(redisCache, cfg.BulkOrders.SessionTTL()),
		bulkadapter.NewWorkOrderImporter(workOrderSvc),
		cfg.BulkOrders,
	)
	functionsHdl := bulkhandler.NewFunctionsHandler(bulkSvc)
	bulkHdl := bulkhandler.NewBulkOrderHandler(bulkSvc)

	// Technicians, attendance and reports
	techSvc := techservice.NewTechnicianService(techadapter.NewGroupRepository(pool), techadapter.NewTechnicianRepository(pool))
	techHdl := techhandler.NewTechnicianHandler(techSvc)
	attendanceHdl := attendancehandler.NewAttendanceHandler(attendanceservice.NewAttendanceService(attendanceadapter.NewPostgresRepository(pool)))
	reportHdl := reporthandler.NewReportHandler(reportservice.NewReportService(reportadapter.NewPostgresRepository(pool)))

	srv := server.New(cfg)
	srv.AddHealthCheck("postgres", pool.Ping)
	srv.AddHealthCheck("redis", redisCache.Ping)

	// Register Routes
	functionsHdl.Register(srv.App)
	bulkHdl.Register(srv.App)
	workOrderHdl.Register(srv.App)
	techHdl.Register(srv.App)
	attendanceHdl.Register(srv.App)
	reportHdl.Register(srv.App)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			serveErr = fmt.Errorf("server: %w", serveErr)
		}
	case <-ctx.Done():
		l.Info("Shutdown signal received")
	}

	if err := srv.Shutdown(shutdownTimeout); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
	bulkSvc.Shutdown()
	l.Info("Application stopped")
	return serveErr
}
