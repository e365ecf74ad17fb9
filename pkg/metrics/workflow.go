package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Workflow records order lifecycle and ledger activity. A nil *Workflow (or one
// built with a nil registerer) drops every observation.
type Workflow struct {
	ordersCreated   *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	stockMutations  *prometheus.CounterVec
	cashEntries     *prometheus.CounterVec
	mutationLatency *prometheus.HistogramVec
}

// NewWorkflow registers the workflow metrics on the provided registerer.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	if reg == nil {
		return &Workflow{}
	}
	w := &Workflow{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simkemas_orders_created_total",
			Help: "Orders created, by payment option.",
		}, []string{"payment_option"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simkemas_order_transitions_total",
			Help: "Production status transitions applied to orders.",
		}, []string{"from", "to"}),
		stockMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simkemas_inventory_mutations_total",
			Help: "Inventory ledger rows written, by type.",
		}, []string{"type"}),
		cashEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simkemas_cash_transactions_total",
			Help: "Cash ledger rows written, by type and category.",
		}, []string{"type", "category"}),
		mutationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simkemas_order_mutation_duration_seconds",
			Help:    "Duration of order mutations including the database transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(w.ordersCreated, w.transitions, w.stockMutations, w.cashEntries, w.mutationLatency)
	return w
}

func (w *Workflow) OrderCreated(option string) {
	if w == nil || w.ordersCreated == nil {
		return
	}
	w.ordersCreated.WithLabelValues(normalizeLabel(option)).Inc()
}

func (w *Workflow) Transition(from, to string) {
	if w == nil || w.transitions == nil {
		return
	}
	w.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (w *Workflow) StockMutation(kind string) {
	if w == nil || w.stockMutations == nil {
		return
	}
	w.stockMutations.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (w *Workflow) CashEntry(kind, category string) {
	if w == nil || w.cashEntries == nil {
		return
	}
	w.cashEntries.WithLabelValues(normalizeLabel(kind), normalizeLabel(category)).Inc()
}

// ObserveMutation records how long an order mutation took and whether it committed.
func (w *Workflow) ObserveMutation(operation string, started time.Time, err error) {
	if w == nil || w.mutationLatency == nil {
		return
	}
	w.mutationLatency.WithLabelValues(normalizeLabel(operation), outcome(err)).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
