package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	analysisRunsTotal     *prometheus.CounterVec
	analysisScoreObserved *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_api_requests_total",
			Help: "Total number of interview API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_api_latency_seconds",
			Help:    "Latency distribution for interview API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_api_errors_total",
			Help: "Total number of error responses returned by the interview API.",
		}, []string{"method", "route", "status"})

		analysisRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_analysis_runs_total",
			Help: "Completed analysis runs by mode and provider.",
		}, []string{"mode", "provider"})

		analysisScoreObserved = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_analysis_score",
			Help:    "Distribution of top-level analysis scores.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"mode"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			analysisRunsTotal,
			analysisScoreObserved,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AnalysisRuns exposes the counter for completed analysis runs.
func AnalysisRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return analysisRunsTotal
}

// AnalysisScores exposes the histogram of top-level analysis scores.
func AnalysisScores() *prometheus.HistogramVec {
	RegisterMetrics()
	return analysisScoreObserved
}
