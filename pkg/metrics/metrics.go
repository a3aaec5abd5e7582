package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyahq/tripdesk/internal/common/config"
)

type Metrics struct {
	registry    *prometheus.Registry
	namespace   string
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	bookingCnt  prometheus.Counter
	paymentCnt  *prometheus.CounterVec
	paymentSum  *prometheus.CounterVec
	documentCnt *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	bookingCnt := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "bookings_created_total"})
	paymentCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "payments_recorded_total"}, []string{"method", "currency"})
	paymentSum := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "payments_amount_total"}, []string{"currency"})
	documentCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "documents_uploaded_total"}, []string{"doc_type"})
	r.MustRegister(bookingCnt, paymentCnt, paymentSum, documentCnt)

	return &Metrics{
		registry:    r,
		namespace:   ns,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		bookingCnt:  bookingCnt,
		paymentCnt:  paymentCnt,
		paymentSum:  paymentSum,
		documentCnt: documentCnt,
	}
}

func (m *Metrics) BookingCreated() {
	m.bookingCnt.Inc()
}

func (m *Metrics) PaymentRecorded(method, currency string, amount float64) {
	m.paymentCnt.WithLabelValues(method, currency).Inc()
	m.paymentSum.WithLabelValues(currency).Add(amount)
}

func (m *Metrics) DocumentUploaded(docType string) {
	m.documentCnt.WithLabelValues(docType).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
