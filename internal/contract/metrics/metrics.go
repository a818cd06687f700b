package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the contract module.
type Metrics struct {
	ContractsCreated       prometheus.Counter
	ContractsTerminated    prometheus.Counter
	ContractsRenewed       prometheus.Counter
	CreateContractDuration prometheus.Histogram
}

// New creates a Metrics instance with all contract module metrics registered.
func New() *Metrics {
	return &Metrics{
		ContractsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_contracts_created_total",
			Help: "Total number of rental contracts created",
		}),
		ContractsTerminated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_contracts_terminated_total",
			Help: "Total number of rental contracts terminated",
		}),
		ContractsRenewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_contracts_renewed_total",
			Help: "Total number of rental contract renewals",
		}),
		CreateContractDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leasehold_create_contract_duration_seconds",
			Help:    "Duration of contract creation (validation plus store insert)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementContractsCreated records a successful contract creation.
func (m *Metrics) IncrementContractsCreated() {
	m.ContractsCreated.Inc()
}

// IncrementContractsTerminated records a contract termination.
func (m *Metrics) IncrementContractsTerminated() {
	m.ContractsTerminated.Inc()
}

// IncrementContractsRenewed records a contract renewal.
func (m *Metrics) IncrementContractsRenewed() {
	m.ContractsRenewed.Inc()
}

// ObserveCreateContract records the duration of a CreateContract operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveCreateContract(start time.Time) {
	m.CreateContractDuration.Observe(time.Since(start).Seconds())
}
