package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/jobs"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/pkg/database"
	"github.com/andreimonforte/malocozz/pkg/event"
	"github.com/andreimonforte/malocozz/pkg/logger"
	"github.com/andreimonforte/malocozz/pkg/metrics"
	"github.com/andreimonforte/malocozz/pkg/orm"
	"github.com/andreimonforte/malocozz/pkg/queue"
)

var ordersCancelled = metrics.NewCounter("malocozz_shop", "orders_cancelled_total",
	"Orders cancelled with stock restored.", nil)

// OrderService implements order listing, tracking, cancellation and the
// admin-side status transitions.
type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService() *OrderService {
	return &OrderService{orders: repositories.NewOrderRepository()}
}

// ListForUser returns one page of the user's own orders.
func (s *OrderService) ListForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ForUser(userID, page, limit)
}

// List returns one page of all orders, optionally filtered by status.
func (s *OrderService) List(status models.OrderStatus, page, limit int) ([]models.Order, orm.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, orm.Pagination{}, ErrInvalidStatus
	}
	return s.orders.All(status, page, limit)
}

// Get returns one order by ID without an ownership check (admin use).
func (s *OrderService) Get(id uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrNotFound
	}
	return order, err
}

// GetForUser returns one order only if it belongs to the user.
func (s *OrderService) GetForUser(id, userID uint) (models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return order, err
	}
	if order.UserID != userID {
		return models.Order{}, ErrAccessDenied
	}
	return order, nil
}

// Cancel cancels an order and returns every reserved unit to stock, in one
// transaction. Only Pending and Processing orders can be cancelled; a second
// cancel of the same order is rejected, so stock is never restored twice.
//
// Stock goes back even to products that have since been soft-deleted from
// the catalogue; their rows still exist and keep correct inventory counts.
func (s *OrderService) Cancel(id, userID uint) (*models.Order, error) {
	var order models.Order

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).Preload("Items").First(&order, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if userID != 0 && order.UserID != userID {
			return ErrAccessDenied
		}
		if !order.Status.Cancellable() {
			return ErrInvalidTransition
		}

		for i := range order.Items {
			item := &order.Items[i]

			var product models.Product
			err := lockForUpdate(tx.Unscoped()).First(&product, item.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Row is gone entirely; nothing to restore for this line.
					logger.Warn("cancel: product row missing, stock not restored",
						"order_id", order.ID, "product_id", item.ProductID)
					continue
				}
				return err
			}

			if product.SizeQuantities == nil {
				product.SizeQuantities = models.SizeQuantities{}
			}
			product.SizeQuantities[item.Size] += item.Quantity
			// Unscoped keeps the update reaching soft-deleted rows.
			if err := tx.Unscoped().Save(&product).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = models.OrderCancelled
		order.CancelledAt = &now
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	ordersCancelled.WithLabelValues().Inc()
	logger.Info("order cancelled", "order_number", order.OrderNumber, "user_id", userID)
	event.FireAsync("order.updated", order)
	s.notifyStatus(&order)

	return &order, nil
}

// UpdateStatus moves an order along the fulfilment state machine and stamps
// the transition date. Cancellation must go through Cancel so stock is
// restored.
func (s *OrderService) UpdateStatus(id uint, next models.OrderStatus) (*models.Order, error) {
	if next == models.OrderCancelled {
		return s.Cancel(id, 0)
	}

	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !next.Valid() || !order.Status.CanTransition(next) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	order.Status = next
	switch next {
	case models.OrderProcessing:
		order.ProcessingAt = &now
	case models.OrderShipped:
		order.ShippedAt = &now
	case models.OrderDelivered:
		order.DeliveredAt = &now
	}

	if err := s.orders.Update(&order); err != nil {
		return nil, err
	}

	logger.Info("order status updated", "order_number", order.OrderNumber, "status", next)
	event.FireAsync("order.updated", order)
	s.notifyStatus(&order)
	return &order, nil
}

// UpdatePayment moves an order along the payment state machine.
func (s *OrderService) UpdatePayment(id uint, next models.PaymentStatus) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !next.Valid() || !order.Payment.CanTransition(next) {
		return nil, ErrInvalidTransition
	}

	order.Payment = next
	if err := s.orders.Update(&order); err != nil {
		return nil, err
	}

	logger.Info("order payment updated", "order_number", order.OrderNumber, "payment", next)
	event.FireAsync("order.updated", order)
	return &order, nil
}

func (s *OrderService) notifyStatus(order *models.Order) {
	if order.Customer == nil {
		loaded, err := s.Get(order.ID)
		if err != nil {
			return
		}
		order.Customer = loaded.Customer
	}
	if order.Customer == nil {
		return
	}

	err := queue.Dispatch(jobs.OrderStatusEmailJob{
		Email:       order.Customer.Email,
		Name:        order.Customer.FirstName,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
	})
	if err != nil {
		logger.Error("order status dispatch failed",
			"order_number", order.OrderNumber, "error", err)
	}
}
