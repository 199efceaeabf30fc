package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_applications_submitted_total",
			Help: "Application submissions by outcome",
		},
		[]string{"outcome"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_application_transitions_total",
			Help: "Accepted application status transitions",
		},
		[]string{"from", "to"},
	)

	ResumeRelays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_resume_relay_total",
			Help: "Resume view and download attempts by outcome",
		},
		[]string{"mode", "outcome"},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobboard_match_score",
			Help:    "Distribution of computed match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
