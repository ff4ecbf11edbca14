package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by command name. Incremented by the cache
// package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulse_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// VotesCast counts accepted vote casts by vote type.
var VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulse_votes_cast_total",
	Help: "Total number of votes cast by type",
}, []string{"vote_type"})

// ActiveWebSockets tracks currently open websocket connections.
var ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pulse_active_websockets",
	Help: "Number of currently active websocket connections",
})

// WebSocketDrops counts realtime messages dropped on slow or closed clients.
var WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulse_websocket_drops_total",
	Help: "Total number of websocket messages dropped by reason",
}, []string{"reason"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus collector into a Fiber handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
