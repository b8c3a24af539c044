package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector, e.g. toolforge_tools_built_total
const Namespace = "toolforge"

func counter(name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: name, Help: help})
}

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Name: name, Help: help}, labels)
}

// HTTP
var (
	HTTPRequestsTotal = counterVec("http_requests_total",
		"HTTP requests by method, chi route pattern and status", LabelMethod, LabelPath, LabelStatus)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   HTTPLatencyBuckets,
	}, []string{LabelMethod, LabelPath})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})
)

// Events
var (
	EventsPublished    = counterVec("events_published_total", "Events delivered to the bus by type", LabelType)
	EventHandlerErrors = counterVec("event_handler_errors_total", "Events whose metric handler could not decode the payload", LabelType)
)

// Tools
var (
	ToolsBuilt       = counterVec("tools_built_total", "Tools composed and stored, by tool type", LabelToolType)
	BuildFailures    = counterVec("tool_build_failures_total", "Rejected tool builds by reason", LabelReason)
	Rebuilds         = counterVec("tool_rebuilds_total", "Stored tool rebuilds by outcome", LabelOutcome)
	Repairs          = counterVec("tool_repairs_total", "Repairs that restored durability, by tool type", LabelToolType)
	ModifiersApplied = counterVec("tool_modifiers_applied_total", "Modifier levels applied, by modifier", LabelModifier)
	ToolCacheLookups = counterVec("tool_cache_lookups_total", "Tool document cache lookups by result", LabelResult)

	DurabilityRestored = counter("tool_durability_restored_total", "Durability points restored by repairs")
	ToolsBroken        = counter("tools_broken_total", "Tools whose damage reached their durability")

	RepairIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "tool_repair_iterations",
		Help:      "Repair iterations committed per repair",
		Buckets:   RepairIterationBuckets,
	})
)
