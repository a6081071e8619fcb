package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	reviewRequestsTotal       *prometheus.CounterVec
	reviewLatencySeconds      *prometheus.HistogramVec
	reviewErrorsTotal         *prometheus.CounterVec
	rankingDurationSeconds    *prometheus.HistogramVec
	manualScoresTotal         *prometheus.CounterVec
	candidateAssignmentsTotal prometheus.Counter
	finalResultsCacheTotal    *prometheus.CounterVec
	eventsPublishedTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the review workflow.
func RegisterMetrics() {
	registerOnce.Do(func() {
		reviewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_requests_total",
			Help: "Total number of admin and recruiter API requests served.",
		}, []string{"method", "route", "status"})

		reviewLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_latency_seconds",
			Help:    "Latency distribution for admin and recruiter API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reviewErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_errors_total",
			Help: "Total number of error responses returned by admin and recruiter endpoints.",
		}, []string{"method", "route", "status"})

		rankingDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Time spent scoring and ranking the applications of a job.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"view"})

		manualScoresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "manual_scores_total",
			Help: "Manual score submissions by outcome.",
		}, []string{"outcome"})

		candidateAssignmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candidate_assignments_total",
			Help: "Applications assigned to recruiters for manual scoring.",
		})

		finalResultsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "final_results_cache_total",
			Help: "Final top-3 cache lookups by result.",
		}, []string{"result"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published to NATS by type and outcome.",
		}, []string{"type", "outcome"})

		prometheus.MustRegister(
			reviewRequestsTotal,
			reviewLatencySeconds,
			reviewErrorsTotal,
			rankingDurationSeconds,
			manualScoresTotal,
			candidateAssignmentsTotal,
			finalResultsCacheTotal,
			eventsPublishedTotal,
		)
	})
}

// ReviewRequests exposes the counter for admin and recruiter requests.
func ReviewRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewRequestsTotal
}

// ReviewLatency exposes the latency histogram for admin and recruiter requests.
func ReviewLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reviewLatencySeconds
}

// ReviewErrors exposes the counter for admin and recruiter error responses.
func ReviewErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewErrorsTotal
}

// RankingDuration exposes the histogram observed per ranking view ("top", "final").
func RankingDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return rankingDurationSeconds
}

// ManualScores exposes the manual score counter.
func ManualScores() *prometheus.CounterVec {
	RegisterMetrics()
	return manualScoresTotal
}

// CandidateAssignments exposes the assignment counter.
func CandidateAssignments() prometheus.Counter {
	RegisterMetrics()
	return candidateAssignmentsTotal
}

// FinalResultsCache exposes the final results cache counter.
func FinalResultsCache() *prometheus.CounterVec {
	RegisterMetrics()
	return finalResultsCacheTotal
}

// EventsPublished exposes the domain event counter.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
