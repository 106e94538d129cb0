package monitor

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// WorkflowOperations counts review chain operations by outcome ("ok" or an error kind).
	WorkflowOperations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "review",
		Name:      "workflow_operations_total",
		Help:      "Review workflow operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ExpiredRequests counts review requests moved to EXPIRED, lazily or by the sweeper.
	ExpiredRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "review",
		Name:      "requests_expired_total",
		Help:      "Review requests expired, by trigger.",
	}, []string{"trigger"})

	LateSubmissions = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "review",
		Name:      "late_submissions_total",
		Help:      "Review results submitted after the review deadline.",
	})

	ConversionDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: "review",
		Name:      "report_conversion_seconds",
		Help:      "Time spent converting review reports to PDF.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	HTTPRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "review",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveConversion records how long a conversion took.
func ObserveConversion(started time.Time) {
	ConversionDuration.Observe(time.Since(started).Seconds())
}

// RegisterMetricsRoute exposes the registry at /metrics.
func RegisterMetricsRoute(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})))
}
