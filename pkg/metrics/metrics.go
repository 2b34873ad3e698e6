package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	AssessmentsTotal   *prometheus.CounterVec
	AssessmentDuration prometheus.Histogram
	RiskFactorsTotal   *prometheus.CounterVec

	ProtocolsRegistered prometheus.Gauge
	ProtocolLookupMiss  prometheus.Counter
	HistoryEvictions    prometheus.Counter
}

func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "assessments_total",
			Help:      "Total risk assessments by overall risk level and urgency.",
		}, []string{"risk_level", "urgency"}),

		AssessmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "assessment_duration_seconds",
			Help:      "Risk assessment latency distribution.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		RiskFactorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "risk_factors_total",
			Help:      "Total risk factors emitted by factor type and severity.",
		}, []string{"type", "severity"}),

		ProtocolsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "protocols_registered",
			Help:      "Current number of registered surgery protocols.",
		}),

		ProtocolLookupMiss: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "protocol_lookup_misses_total",
			Help:      "Assessments rejected because no protocol was registered for the surgery type.",
		}),

		HistoryEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "engine",
			Name:      "history_evictions_total",
			Help:      "Assessment history entries evicted by the per-patient cap.",
		}),
	}
}
