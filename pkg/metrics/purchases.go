package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PurchaseMetrics tracks marketplace purchase outcomes.
type PurchaseMetrics struct {
	created   *prometheus.CounterVec
	conflicts prometheus.Counter
}

// NewPurchaseMetrics registers the purchase metrics on the provided registerer.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	if reg == nil {
		return &PurchaseMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_total",
		Help: "Purchases by terminal outcome.",
	}, []string{"status"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchase_stock_conflicts_total",
		Help: "Purchase attempts rejected for insufficient stock.",
	})
	reg.MustRegister(created, conflicts)
	return &PurchaseMetrics{
		created:   created,
		conflicts: conflicts,
	}
}

// IncPurchase increments the counter for the given purchase status.
func (p *PurchaseMetrics) IncPurchase(status string) {
	if p == nil || p.created == nil {
		return
	}
	p.created.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncStockConflict increments the insufficient stock counter.
func (p *PurchaseMetrics) IncStockConflict() {
	if p == nil || p.conflicts == nil {
		return
	}
	p.conflicts.Inc()
}
