package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AttemptsSubmitted counts scored attempts by mode (assigned, self_study).
	AttemptsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_submitted_total",
			Help: "Total number of submitted test attempts",
		},
		[]string{"mode"},
	)

	// AttemptScoreRatio observes score / totalPoints of every attempt.
	AttemptScoreRatio = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score_ratio",
			Help:    "Fraction of available points earned per attempt",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	AssignmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_assignments_created_total",
			Help: "Total number of test assignment rows created",
		},
	)

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptsSubmitted)
		prometheus.MustRegister(AttemptScoreRatio)
		prometheus.MustRegister(AssignmentsCreated)
	})
}

// ObserveAttempt records one scored attempt.
func ObserveAttempt(selfStudy bool, score, totalPoints int) {
	mode := "assigned"
	if selfStudy {
		mode = "self_study"
	}
	AttemptsSubmitted.WithLabelValues(mode).Inc()
	if totalPoints > 0 {
		AttemptScoreRatio.Observe(float64(score) / float64(totalPoints))
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
