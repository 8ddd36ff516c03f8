// Package listeners subscribes to domain events.
package listeners

import (
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

// Register wires every listener. Call it once at boot.
func Register() {
	event.Listen(services.EventSaleCommitted, onSaleCommitted)
	event.Listen(services.EventSaleRejected, onSaleRejected)
}

func onSaleCommitted(payload interface{}) {
	e, ok := payload.(services.SaleCommitted)
	if !ok || e.Sale == nil {
		return
	}
	revenue, _ := e.Sale.TotalPrice.Float64()
	metrics.RecordSale(revenue, e.Items)
	metrics.CommitDuration.Observe(e.Duration.Seconds())
}

func onSaleRejected(payload interface{}) {
	e, ok := payload.(services.SaleRejected)
	if !ok {
		return
	}
	metrics.RecordRejection(e.Reason)
	metrics.CommitDuration.Observe(e.Duration.Seconds())
}
