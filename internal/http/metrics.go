package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors. Each server carries its
// own registry so tests can spin up several instances.
type metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	billsSubmitted   prometheus.Counter
	receiptsRejected prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billed_http_requests_total",
			Help: "HTTP requests by path, method, and status.",
		}, []string{"path", "method", "status"}),
		billsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billed_bills_submitted_total",
			Help: "Bills successfully submitted.",
		}),
		receiptsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billed_receipts_rejected_total",
			Help: "Receipt uploads rejected for unsupported file type.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.billsSubmitted,
		m.receiptsRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
