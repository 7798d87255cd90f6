package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	InteractionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_interaction_events_total",
			Help: "Count of recorded interaction events by event_type and result.",
		},
		[]string{"event_type", "result"},
	)

	AssignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_experiment_assignments_total",
			Help: "Count of first-time experiment assignments by experiment and variant.",
		},
		[]string{"experiment", "variant"},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_search_requests_total",
			Help: "Personalized search requests by scoring profile.",
		},
		[]string{"profile"},
	)

	SearchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "personalization_search_latency_seconds",
		Help:    "Latency of the personalized search endpoint",
		Buckets: prometheus.DefBuckets,
	})

	BoostPredicatesAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_boost_predicates_total",
			Help: "Boost predicates appended to composed queries by source.",
		},
		[]string{"source"},
	)

	DecaySweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "personalization_decay_sweep_duration_seconds",
		Help:    "Duration of a full decay sweep",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	DecaySweepProfilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personalization_decay_sweep_profiles_total",
			Help: "Profiles processed by the decay sweep by result.",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(
		InteractionEventsTotal,
		AssignmentsTotal,
		SearchRequestsTotal,
		SearchLatency,
		BoostPredicatesAppended,
		DecaySweepDuration,
		DecaySweepProfilesTotal,
	)
}
