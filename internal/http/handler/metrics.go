package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Metrics serves the Prometheus exposition format for everything registered on gatherer.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(otelhttp.NewHandler(h, "metrics"))
}
