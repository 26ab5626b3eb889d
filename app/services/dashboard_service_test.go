package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreimonforte/malocozz/app/models"
)

func TestDashboardStats(t *testing.T) {
	db := setupDB(t)

	// 10 x 150.00 in stock, 3 of them low.
	seedProduct(t, db, "JKT900", "150.00", models.SizeQuantities{"M": 7})
	seedProduct(t, db, "JKT901", "10.00", models.SizeQuantities{"S": 3})

	checkout := NewCheckoutService()
	orders := NewOrderService()

	var jacket models.Product
	require.NoError(t, db.Where("code = ?", "JKT900").First(&jacket).Error)

	paid, err := checkout.PlaceOrder(1, cartWith(line(&jacket, "M", 2)), validCheckout())
	require.NoError(t, err)
	_, err = orders.UpdatePayment(paid.ID, models.PaymentPending)
	require.NoError(t, err)
	_, err = orders.UpdatePayment(paid.ID, models.PaymentPaid)
	require.NoError(t, err)

	awaiting, err := checkout.PlaceOrder(2, cartWith(line(&jacket, "M", 1)), validCheckout())
	require.NoError(t, err)
	_, err = orders.UpdatePayment(awaiting.ID, models.PaymentPending)
	require.NoError(t, err)

	stats, err := NewDashboardService().Stats()
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalCategories)
	assert.EqualValues(t, 2, stats.TotalOrders)
	assert.EqualValues(t, 2, stats.OrdersByStatus[models.OrderPending])
	assert.EqualValues(t, 1, stats.PendingPayments)

	// Only the paid order counts as revenue.
	assert.True(t, stats.Revenue.Equal(paid.Total), "revenue %s, want %s", stats.Revenue, paid.Total)

	// 4 jackets left at 150.00 plus 3 tees at 10.00.
	want := decimal.RequireFromString("630.00")
	assert.True(t, stats.InventoryValue.Equal(want), "inventory %s, want %s", stats.InventoryValue, want)

	require.Len(t, stats.LowStock, 2)
	assert.Len(t, stats.RecentProducts, 2)
	assert.Len(t, stats.RecentOrders, 2)
}
