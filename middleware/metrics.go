package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of calls made to the rental backend",
		},
		[]string{"method", "route", "status"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Rental backend call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	notificationPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_polls_total",
			Help: "Total number of notification poll cycles",
		},
		[]string{"result"},
	)

	notificationEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_events_published_total",
			Help: "Total number of notification events published to Kafka",
		},
		[]string{"result"},
	)

	activeWorkspaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_active_workspaces",
			Help: "Number of admin sessions with a live workspace",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(backendRequestsTotal)
	prometheus.MustRegister(backendRequestDuration)
	prometheus.MustRegister(notificationPollsTotal)
	prometheus.MustRegister(notificationEventsPublished)
	prometheus.MustRegister(activeWorkspaces)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordBackendCall counts one backend round trip; status 0 means no response.
func RecordBackendCall(method, route string, status int, elapsed time.Duration) {
	backendRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	backendRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordNotificationPoll(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	notificationPollsTotal.WithLabelValues(result).Inc()
}

func RecordNotificationPublished(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	notificationEventsPublished.WithLabelValues(result).Inc()
}

func SetActiveWorkspaces(n int) {
	activeWorkspaces.Set(float64(n))
}
