package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketing"

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	ticketsPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_purchased_total",
			Help:      "Tickets issued",
		},
	)

	ticketsSoldOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_out_total",
			Help:      "Purchases refused because the event was at capacity",
		},
	)

	ticketCodeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_code_collisions_total",
			Help:      "Ticket code unique violations that triggered a retry",
		},
	)

	emailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmation_emails_total",
			Help:      "Confirmation email outcomes",
		},
		[]string{"status"},
	)

	emailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "confirmation_email_queue_depth",
			Help:      "Confirmation emails waiting for a worker",
		},
	)
)

// Track ticket issuance
func TrackTicketPurchased() {
	ticketsPurchased.Inc()
}

func TrackSoldOut() {
	ticketsSoldOut.Inc()
}

func TrackCodeCollision() {
	ticketCodeCollisions.Inc()
}

// TrackEmail records an email outcome: sent, retried, failed or
// publish_failed.
func TrackEmail(status string) {
	emailDeliveries.WithLabelValues(status).Inc()
}

func SetEmailQueueDepth(n int) {
	emailQueueDepth.Set(float64(n))
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
