package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterUsersCreated        prometheus.Counter
	CounterWorkoutsCreated     prometheus.Counter
	CounterWorkoutEvents       *prometheus.CounterVec
	CounterAnalyticsReports    *prometheus.CounterVec
	CounterFeatureVectors      prometheus.Counter
	CounterFeatureExports      *prometheus.CounterVec

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugeUsersTotal    prometheus.Gauge
	GaugeWorkoutsTotal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramReportWorkouts  prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitness", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterUsersCreated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "users_created",
		Help:      "The total number of created users",
	})
	counterWorkoutsCreated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_created",
		Help:      "The total number of logged workouts",
	})
	counterWorkoutEvents := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_events",
		Help:      "Workout lifecycle events, by type and publish result",
	}, []string{"type", "result"})
	counterAnalyticsReports := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "analytics_reports",
		Help:      "Generated analytics reports, by outcome",
	}, []string{"outcome"})
	counterFeatureVectors := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feature_vectors",
		Help:      "The total number of extracted feature vectors",
	})
	counterFeatureExports := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feature_exports",
		Help:      "Feature set exports to object storage, by outcome",
	}, []string{"outcome"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeUsersTotal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "users_total",
		Help:      "Number of stored users, refreshed periodically",
	})
	gaugeWorkoutsTotal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_total",
		Help:      "Number of stored workouts, refreshed periodically",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramReportWorkouts := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "report_workouts",
		Help:      "Number of workouts an analytics report was computed over",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterUsersCreated:        counterUsersCreated,
		CounterWorkoutsCreated:     counterWorkoutsCreated,
		CounterWorkoutEvents:       counterWorkoutEvents,
		CounterAnalyticsReports:    counterAnalyticsReports,
		CounterFeatureVectors:      counterFeatureVectors,
		CounterFeatureExports:      counterFeatureExports,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeUsersTotal:            gaugeUsersTotal,
		GaugeWorkoutsTotal:         gaugeWorkoutsTotal,
		HistogramRequestDuration:   histogramRequestDuration,
		HistogramReportWorkouts:    histogramReportWorkouts,
	}
}
