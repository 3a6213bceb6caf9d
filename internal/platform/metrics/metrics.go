// Package metrics holds the Prometheus collectors for the simulation
// service. All collectors live on Registry, which is what /metrics serves
// and what cmd/sweep pushes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

const namespace = "darkstore"

// Simulation

var OrdersGenerated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "orders_generated_total",
	Help:      "Orders produced by the demand generator",
})

var OrdersDelivered = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "orders_delivered_total",
	Help:      "Orders delivered to the customer",
})

var OrdersCancelled = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "orders_cancelled_total",
	Help:      "Pending orders cancelled after waiting too long",
})

// DeliveryMinutes observes simulated minutes from placement to hand-off.
var DeliveryMinutes = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "delivery_minutes",
	Help:      "Simulated delivery duration in minutes",
	Buckets:   []float64{10, 15, 20, 25, 30, 40, 50, 60, 90, 120},
})

var AgentsByStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "agents",
	Help:      "Agents by current status",
}, []string{"status"})

var TrafficFactor = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "traffic_factor",
	Help:      "Current traffic speed multiplier",
})

var AvgFatigue = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "agent_fatigue_avg",
	Help:      "Mean agent fatigue factor (1.0 = fresh)",
})

var StalledAgents = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "agents_stalled_total",
	Help:      "Agent-ticks skipped because effective speed was near zero",
})

var TickDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "tick_duration_seconds",
	Help:      "Wall time spent in one simulation tick",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
})

// Sweep

var SweepDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "sweep_duration_seconds",
	Help:      "Wall time of a full optimization sweep",
	Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
})

var SweepRecommendedAgents = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "sweep_recommended_agents",
	Help:      "Agent count recommended by the last sweep",
})

var SweepCacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "sweep_cache_lookups_total",
	Help:      "Sweep cache lookups by result",
}, []string{"result"})

// Advisory

var AdvisoryRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "advisory_requests_total",
	Help:      "Advisory requests by outcome (ok, error, cooldown, disabled)",
}, []string{"result"})

// HTTP

var HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status",
}, []string{"method", "route", "status"})

var StreamClients = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "stream_clients",
	Help:      "Connected websocket subscribers",
})
