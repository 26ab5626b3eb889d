package repositories

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// FindByID looks up an order with its items and customer.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Customer").
		Where("id = ?", id).First(&order)
	return order, err
}

// FindByNumber looks up an order by its public order number.
func (r *OrderRepository) FindByNumber(number string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Customer").
		Where("order_number = ?", number).First(&order)
	return order, err
}

// ForUser returns one page of a user's orders, newest first.
func (r *OrderRepository) ForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Paginate(page, limit, &orders)
	return orders, pagination, err
}

// All returns one page of all orders, newest first, optionally filtered by
// fulfilment status.
func (r *OrderRepository) All(status models.OrderStatus, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Customer").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	pagination, err := q.Paginate(page, limit, &orders)
	return orders, pagination, err
}

// Update persists changes to an existing order.
func (r *OrderRepository) Update(order *models.Order) error {
	return orm.DB().Save(order)
}

// CountByStatus returns how many orders sit in the given fulfilment status.
func (r *OrderRepository) CountByStatus(status models.OrderStatus) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Order{}).Where("status = ?", status).Count(&n)
	return n, err
}

// Count returns the total number of orders.
func (r *OrderRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Order{}).Count(&n)
	return n, err
}
