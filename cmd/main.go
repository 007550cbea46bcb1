package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"invoice-service/internal/handler"
	"invoice-service/internal/middleware"
	"invoice-service/internal/service"
	"invoice-service/internal/store"
	"invoice-service/pkg/config"
	"invoice-service/pkg/database"
	"invoice-service/pkg/logger"
	"invoice-service/pkg/metrics"
	"invoice-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "invoice-service"

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	seedOnly := flag.Bool("seed-only", false, "run migrations, load the reference catalog and exit")
	flag.Parse()

	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting invoice service...", cfg.LogConfig()...)

	// Service registry, exposed on /metrics
	registry := promclient.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := prometheus.NewMetrics(cfg.Metrics.Prefix, registry)
	httpMetrics, err := metrics.NewHTTPMetrics(serviceName, registry)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}
	log.Info("Prometheus metrics initialized", zap.String("prefix", cfg.Metrics.Prefix))

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if cfg.DB.AutoMigrate || *migrateOnly || *seedOnly {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database migrations completed")
	}
	if *migrateOnly {
		return
	}
	if cfg.DB.Seed || *seedOnly {
		if err := database.Seed(ctx, db); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
		log.Info("Reference catalog loaded")
	}
	if *seedOnly {
		return
	}

	st := store.New(db, domainMetrics)
	h := handler.New(handler.Options{
		ServiceName:   serviceName,
		Workflow:      service.NewInvoiceWorkflow(st, domainMetrics, cfg.Invoice),
		Reader:        service.NewReader(st),
		Catalog:       service.NewCatalog(st, domainMetrics),
		Maintenance:   database.Maintainer{DB: db},
		ExposeDetails: !cfg.Server.IsProduction(),
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(!cfg.Server.IsProduction())

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	handler.Register(e, h)

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
