// Package metrics exposes Prometheus collectors for the HTTP layer, order
// writes and the order event stream.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pocha"

// Registry owns the service collectors on its own prometheus.Registry.
type Registry struct {
	reg *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	ordersCreated     prometheus.Counter
	statusTransitions *prometheus.CounterVec
	streamSubscribers prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders written at checkout.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order status changes by source and target status.",
		}, []string{"from", "to"}),
		streamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Connected order stream subscribers.",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.ordersCreated,
		r.statusTransitions,
		r.streamSubscribers,
	)
	return r
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderCreated counts a checkout.
func (r *Registry) OrderCreated() {
	r.ordersCreated.Inc()
}

// StatusChanged counts a status transition.
func (r *Registry) StatusChanged(from, to string) {
	r.statusTransitions.WithLabelValues(from, to).Inc()
}

// SubscriberAdded increments the stream subscriber gauge.
func (r *Registry) SubscriberAdded() {
	r.streamSubscribers.Inc()
}

// SubscriberRemoved decrements the stream subscriber gauge.
func (r *Registry) SubscriberRemoved() {
	r.streamSubscribers.Dec()
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
