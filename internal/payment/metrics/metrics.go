package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the payment module.
type Metrics struct {
	PaymentsRecorded       *prometheus.CounterVec
	PaymentsRejected       prometheus.Counter
	ProcessPaymentDuration prometheus.Histogram
}

// New creates a Metrics instance with all payment module metrics registered.
func New() *Metrics {
	return &Metrics{
		PaymentsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leasehold_payments_recorded_total",
			Help: "Total number of payments recorded, by status",
		}, []string{"status"}),
		PaymentsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_payments_rejected_total",
			Help: "Total number of payments rejected before recording",
		}),
		ProcessPaymentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leasehold_process_payment_duration_seconds",
			Help:    "Duration of payment processing (validation plus store append)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordPayment records a successfully processed payment.
func (m *Metrics) RecordPayment(status string) {
	m.PaymentsRecorded.WithLabelValues(status).Inc()
}

// RecordRejection records a payment rejected during validation.
func (m *Metrics) RecordRejection() {
	m.PaymentsRejected.Inc()
}

// ObserveProcessPayment records the duration of a Process operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveProcessPayment(start time.Time) {
	m.ProcessPaymentDuration.Observe(time.Since(start).Seconds())
}
