package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment axis of an order's lifecycle.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// orderTransitions is the full fulfilment state machine. Delivered and
// Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransition reports whether the fulfilment status may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool { return s.CanTransition(OrderCancelled) }

// Valid reports whether s names a known fulfilment status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment axis, independent of fulfilment.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// paymentTransitions: Unpaid → Pending → Paid, Pending → Failed, and a failed
// payment may retry back to Pending.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:  {PaymentPending},
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPending},
}

// CanTransition reports whether the payment status may move to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s names a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Order is one committed checkout. Money columns use decimal precision; item
// prices are copied at purchase time so later catalogue edits never rewrite
// order history.
type Order struct {
	gorm.Model
	OrderNumber   string          `gorm:"uniqueIndex;size:50;not null"     json:"order_number"`
	UserID        uint            `gorm:"not null;index"                   json:"user_id"`
	CustomerID    uint            `gorm:"not null;index"                   json:"customer_id"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID"            json:"customer,omitempty"`
	Status        OrderStatus     `gorm:"size:20;not null;default:Pending" json:"status"`
	Payment       PaymentStatus   `gorm:"size:20;not null;default:Unpaid"  json:"payment_status"`
	PaymentMethod string          `gorm:"size:50;default:Cash on Delivery" json:"payment_method"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"subtotal"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"shipping_cost"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"total"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	ShippingPhone   string `gorm:"size:20"   json:"shipping_phone"`

	ProcessingAt *time.Time `json:"processing_at,omitempty"`
	ShippedAt    *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is one (product, size) line of an order. Name, size, color and
// unit price are snapshots taken when the order was placed.
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"not null;index"              json:"order_id"`
	ProductID   uint            `gorm:"not null;index"              json:"product_id"`
	ProductName string          `gorm:"size:200;not null"           json:"product_name"`
	ProductCode string          `gorm:"size:50;not null"            json:"product_code"`
	Size        string          `gorm:"size:10;not null"            json:"size"`
	Color       string          `gorm:"size:50"                     json:"color"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

// LineTotal is unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TimelineStep is one entry of a customer-facing order tracking timeline.
type TimelineStep struct {
	Status    string     `json:"status"`
	Date      *time.Time `json:"date,omitempty"`
	Completed bool       `json:"completed"`
}

// Timeline builds the tracking steps the storefront renders for this order.
func (o *Order) Timeline() []TimelineStep {
	placed := o.CreatedAt
	if o.Status == OrderCancelled {
		return []TimelineStep{
			{Status: "Order Placed", Date: &placed, Completed: true},
			{Status: "Cancelled", Date: o.CancelledAt, Completed: true},
		}
	}

	steps := []TimelineStep{
		{Status: "Order Placed", Date: &placed, Completed: true},
		{Status: "Processing", Date: o.ProcessingAt, Completed: o.Status != OrderPending},
		{Status: "Shipped", Date: o.ShippedAt, Completed: o.Status == OrderShipped || o.Status == OrderDelivered},
		{Status: "Delivered", Date: o.DeliveredAt, Completed: o.Status == OrderDelivered},
	}
	return steps
}
