package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business-level Prometheus counters. It implements
// usecase.MetricsRecorder.
type Metrics struct {
	ExpensesCaptured   prometheus.Counter
	InvoicesRegistered prometheus.Counter
	MovementsLinked    prometheus.Counter
	MovementsUnlinked  prometheus.Counter
	JournalsGenerated  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ExpensesCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastoledger_expenses_captured_total",
			Help: "Total number of expenses captured",
		}),
		InvoicesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastoledger_invoices_registered_total",
			Help: "Total number of CFDI invoices registered",
		}),
		MovementsLinked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastoledger_movements_linked_total",
			Help: "Total number of bank movements linked",
		}),
		MovementsUnlinked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastoledger_movements_unlinked_total",
			Help: "Total number of bank movements unlinked",
		}),
		JournalsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gastoledger_journals_generated_total",
				Help: "Total number of journals generated, by balance outcome",
			},
			[]string{"balanced"},
		),
	}
}

// ExpenseCaptured records a captured expense.
func (m *Metrics) ExpenseCaptured() {
	m.ExpensesCaptured.Inc()
}

// InvoiceRegistered records a registered invoice.
func (m *Metrics) InvoiceRegistered() {
	m.InvoicesRegistered.Inc()
}

// MovementLinked records a linked bank movement.
func (m *Metrics) MovementLinked() {
	m.MovementsLinked.Inc()
}

// MovementUnlinked records an unlinked bank movement.
func (m *Metrics) MovementUnlinked() {
	m.MovementsUnlinked.Inc()
}

// JournalGenerated records a generated journal and whether it balanced.
func (m *Metrics) JournalGenerated(balanced bool) {
	label := "true"
	if !balanced {
		label = "false"
	}
	m.JournalsGenerated.WithLabelValues(label).Inc()
}
