package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// InitMetrics builds the HTTP metrics collector. A nil registry selects the
// process-wide default registerer.
func InitMetrics(serviceName string, registry prometheus.Registerer) *fiberprometheus.FiberPrometheus {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return fiberprometheus.NewWithRegistry(registry, serviceName, "devconnector", "http", nil)
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
