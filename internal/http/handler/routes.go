package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"jobsink/internal/service"
)

// RegisterRoutes attaches the ingestion, health and metrics routes to app.
// Handlers translate HTTP to pipeline calls and carry no business logic.
func RegisterRoutes(app *fiber.App, ingest service.IngestService, health HealthChecker, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(health))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))

	app.Post("/jobs", IngestJob(ingest))
	app.Post("/feeds", IngestFeed(ingest))
}
