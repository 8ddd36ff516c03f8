package listeners

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

func TestSaleEventsFeedMetrics(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)
	Register()

	sales := testutil.ToFloat64(metrics.SalesCommitted)
	revenue := testutil.ToFloat64(metrics.SalesRevenue)
	items := testutil.ToFloat64(metrics.ItemsSold)
	mismatches := testutil.ToFloat64(metrics.SalesRejected.WithLabelValues(services.ReasonTotalMismatch))

	event.Fire(services.EventSaleCommitted, services.SaleCommitted{
		Sale:     &models.Sale{TotalPrice: decimal.NewFromInt(4500)},
		Items:    3,
		Duration: 5 * time.Millisecond,
	})
	event.Fire(services.EventSaleRejected, services.SaleRejected{Reason: services.ReasonTotalMismatch})
	event.Fire(services.EventSaleCommitted, "not a sale")

	assert.Equal(t, sales+1, testutil.ToFloat64(metrics.SalesCommitted))
	assert.Equal(t, revenue+4500, testutil.ToFloat64(metrics.SalesRevenue))
	assert.Equal(t, items+3, testutil.ToFloat64(metrics.ItemsSold))
	assert.Equal(t, mismatches+1, testutil.ToFloat64(metrics.SalesRejected.WithLabelValues(services.ReasonTotalMismatch)))
}
