package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modam_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DiagnosesTotal counts completed mock diagnoses by resulting stage.
	DiagnosesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modam_diagnoses_total",
		Help: "Total number of completed diagnoses by stage",
	}, []string{"stage"})

	// CounterFallbacks counts uses of the manual read-then-write counter
	// path after the atomic increment failed.
	CounterFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modam_counter_fallbacks_total",
		Help: "Total number of manual counter fallbacks by counter",
	}, []string{"counter"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
