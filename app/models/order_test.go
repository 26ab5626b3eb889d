package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderPending, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderDelivered, OrderPending, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderProcessing, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.True(t, OrderPending.Cancellable())
	assert.True(t, OrderProcessing.Cancellable())
	assert.False(t, OrderShipped.Cancellable())
	assert.False(t, OrderDelivered.Cancellable())
	assert.False(t, OrderCancelled.Cancellable())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderPending.Valid())
	assert.True(t, OrderCancelled.Valid())
	assert.False(t, OrderStatus("Shipped ").Valid())
	assert.False(t, OrderStatus("unknown").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentUnpaid, PaymentPending, true},
		{PaymentUnpaid, PaymentPaid, false},
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentUnpaid, false},
		{PaymentFailed, PaymentPending, true},
		{PaymentFailed, PaymentPaid, false},
		{PaymentPaid, PaymentPending, false},
		{PaymentPaid, PaymentFailed, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTimelineCancelledOrder(t *testing.T) {
	cancelled := time.Now()
	order := Order{Status: OrderCancelled, CancelledAt: &cancelled}

	steps := order.Timeline()
	assert.Len(t, steps, 2)
	assert.Equal(t, "Order Placed", steps[0].Status)
	assert.Equal(t, "Cancelled", steps[1].Status)
	assert.True(t, steps[1].Completed)
}

func TestTimelineProgress(t *testing.T) {
	shipped := time.Now()
	order := Order{Status: OrderShipped, ShippedAt: &shipped}

	steps := order.Timeline()
	assert.Len(t, steps, 4)
	assert.True(t, steps[0].Completed)  // placed
	assert.True(t, steps[1].Completed)  // processing
	assert.True(t, steps[2].Completed)  // shipped
	assert.False(t, steps[3].Completed) // delivered
	assert.Nil(t, steps[3].Date)
}
