// README: Prometheus collectors for the agent loop, tools, and place cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripwise"

var (
	AgentInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_invocations_total",
			Help:      "Agent invocations by outcome.",
		},
		[]string{"outcome"},
	)

	AgentToolIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_tool_iterations",
			Help:      "Tool round trips per agent invocation.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)

	AgentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_duration_seconds",
			Help:      "Wall time of one agent invocation.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_tool_calls_total",
			Help:      "Model-issued tool calls by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	EnrichmentDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_enrichment_dropped_total",
			Help:      "Suggestions dropped because their place could not be resolved.",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_cache_lookups_total",
			Help:      "Place cache lookups by the layer that answered (memory, redis, search, miss).",
		},
		[]string{"layer"},
	)
)
