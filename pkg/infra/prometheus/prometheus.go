package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// QuotaStoreErrors counts quota backend failures. Every increment is a
	// fail-open admission, so this is the primary alerting signal for the
	// rate-limiting subsystem.
	QuotaStoreErrors = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "plantspack_gateway_quota_store_errors_total",
			Help: "Total number of quota store failures handled by failing open",
		},
	)

	QuotaRejections = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantspack_gateway_quota_rejections_total",
			Help: "Total number of quota checks rejected, per action",
		},
		[]string{"action"},
	)

	ClassifierDegraded = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "plantspack_gateway_classifier_degraded_total",
			Help: "Total number of classifications served by the local fallback",
		},
	)

	ModerationDegraded = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "plantspack_gateway_moderation_degraded_total",
			Help: "Total number of moderation scores served by the neutral fallback",
		},
	)

	Decisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantspack_gateway_decisions_total",
			Help: "Total number of gate decisions, per outcome",
		},
		[]string{"action"},
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func Registry() *prometheus.Registry {
	return registry
}
