package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"jobsink/docs"
	"jobsink/internal/config"
	handlers "jobsink/internal/http/handler"
	"jobsink/internal/http/middleware"
	"jobsink/internal/logging"
	"jobsink/internal/otel"
	"jobsink/internal/pipeline"
	"jobsink/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	bodyLimit       = 16 << 20
)

// @title jobsink API
// @version 1.0
// @description Ingests job records into PostgreSQL and MongoDB behind a Redis dedup cache.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	logger := logging.New(os.Stdout, loc, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register pipeline metrics: %v", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	// Connect all three stores up front; any failure is fatal.
	p, err := pipeline.Open(ctx, cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("failed to open pipeline: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, p, p, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down", "event", "server_shutdown")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("server shutdown failed", "event", "server_shutdown_failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server listening", "event", "server_start", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "event", "server_failed", "error", err.Error())
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := p.Close(closeCtx); err != nil {
		logger.Error("pipeline close failed", "event", "pipeline_close_failed", "error", err.Error())
	}
	if err := shutdownTracing(closeCtx); err != nil {
		logger.Error("tracing shutdown failed", "event", "tracing_shutdown_failed", "error", err.Error())
	}
}
