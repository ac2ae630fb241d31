package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localit_http_requests_total",
			Help: "Total number of HTTP requests processed by the localit service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localit_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	chatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localit_chat_messages_total",
			Help: "Total number of chat messages appended, by room kind.",
		},
		[]string{"kind"},
	)
	chatSessionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "localit_chat_sessions_open",
			Help: "Number of currently open chat sessions.",
		},
	)
	slotPicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localit_slot_picks_total",
			Help: "Total number of reservation slot picks, by result.",
		},
		[]string{"result"},
	)
	availabilityCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localit_availability_cache_total",
			Help: "Availability cache lookups, by outcome.",
		},
		[]string{"outcome"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "localit_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localit_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "localit_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		chatMessagesTotal,
		chatSessionsOpen,
		slotPicksTotal,
		availabilityCacheTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncChatMessage(kind string) {
	chatMessagesTotal.WithLabelValues(kind).Inc()
}

func SetChatSessionsOpen(n int) {
	chatSessionsOpen.Set(float64(n))
}

func IncSlotPick(result string) {
	slotPicksTotal.WithLabelValues(result).Inc()
}

func IncAvailabilityCache(outcome string) {
	availabilityCacheTotal.WithLabelValues(outcome).Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
