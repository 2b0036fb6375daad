// Package metrics exposes the engine's counters and latency distribution
// as Prometheus collectors, labeled per contract so a dashboard can break
// throughput and latency down by instrument.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered against one prometheus.Registry.
type Metrics struct {
	ordersReceived  *prometheus.CounterVec
	ordersMatched   *prometheus.CounterVec
	ordersCancelled *prometheus.CounterVec
	ordersInBook    *prometheus.GaugeVec
	tradesExecuted  *prometheus.CounterVec
	matchLatency    *prometheus.HistogramVec
	journalErrors   *prometheus.CounterVec
}

// New registers the engine's collectors against reg and returns a handle
// for recording observations.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctenex",
			Name:      "orders_received_total",
			Help:      "Number of orders accepted for matching, by contract.",
		}, []string{"contract_id"}),
		ordersMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctenex",
			Name:      "orders_matched_total",
			Help:      "Number of order participations in fills (the aggressor plus each resting order it traded against, counted once per add_order call), by contract.",
		}, []string{"contract_id"}),
		ordersCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctenex",
			Name:      "orders_cancelled_total",
			Help:      "Number of orders removed via explicit cancel or market-residual cancellation, by contract.",
		}, []string{"contract_id"}),
		ordersInBook: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ctenex",
			Name:      "orders_in_book",
			Help:      "Current number of resting orders, by contract.",
		}, []string{"contract_id"}),
		tradesExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctenex",
			Name:      "trades_executed_total",
			Help:      "Number of trades generated, by contract.",
		}, []string{"contract_id"}),
		matchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ctenex",
			Name:      "match_latency_seconds",
			Help:      "Time spent inside a single add_order call, by contract.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20),
		}, []string{"contract_id"}),
		journalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctenex",
			Name:      "journal_errors_total",
			Help:      "Number of trade journal append failures, by contract.",
		}, []string{"contract_id"}),
	}

	reg.MustRegister(
		m.ordersReceived,
		m.ordersMatched,
		m.ordersCancelled,
		m.ordersInBook,
		m.tradesExecuted,
		m.matchLatency,
		m.journalErrors,
	)
	return m
}

func (m *Metrics) IncOrdersReceived(contractID string) {
	m.ordersReceived.WithLabelValues(contractID).Inc()
}

func (m *Metrics) IncOrdersMatched(contractID string, count int) {
	if count <= 0 {
		return
	}
	m.ordersMatched.WithLabelValues(contractID).Add(float64(count))
}

func (m *Metrics) IncOrdersCancelled(contractID string) {
	m.ordersCancelled.WithLabelValues(contractID).Inc()
}

func (m *Metrics) IncOrdersInBook(contractID string) {
	m.ordersInBook.WithLabelValues(contractID).Inc()
}

func (m *Metrics) DecOrdersInBook(contractID string) {
	m.ordersInBook.WithLabelValues(contractID).Dec()
}

func (m *Metrics) IncTradesExecuted(contractID string, count int) {
	if count <= 0 {
		return
	}
	m.tradesExecuted.WithLabelValues(contractID).Add(float64(count))
}

func (m *Metrics) IncJournalErrors(contractID string) {
	m.journalErrors.WithLabelValues(contractID).Inc()
}

// ObserveLatency records the duration of one add_order call in seconds.
func (m *Metrics) ObserveLatency(contractID string, seconds float64) {
	m.matchLatency.WithLabelValues(contractID).Observe(seconds)
}
