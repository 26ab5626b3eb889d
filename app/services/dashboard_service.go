package services

import (
	"github.com/shopspring/decimal"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// lowStockThreshold flags products whose total stock across all sizes has
// dropped to this level or below.
const lowStockThreshold = 5

// DashboardStats is everything the admin landing page shows.
type DashboardStats struct {
	TotalProducts   int64                        `json:"total_products"`
	TotalCategories int64                        `json:"total_categories"`
	TotalOrders     int64                        `json:"total_orders"`
	OrdersByStatus  map[models.OrderStatus]int64 `json:"orders_by_status"`
	Revenue         decimal.Decimal              `json:"revenue"`
	InventoryValue  decimal.Decimal              `json:"inventory_value"`
	LowStock        []models.Product             `json:"low_stock"`
	RecentProducts  []models.Product             `json:"recent_products"`
	RecentOrders    []models.Order               `json:"recent_orders"`
	PendingPayments int64                        `json:"pending_payments"`
}

// DashboardService aggregates store-wide numbers for the admin dashboard.
type DashboardService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	orders     *repositories.OrderRepository
}

func NewDashboardService() *DashboardService {
	return &DashboardService{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
		orders:     repositories.NewOrderRepository(),
	}
}

// Stats computes the dashboard snapshot. Revenue counts paid orders only;
// inventory value prices every unit on hand at its catalogue price.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: map[models.OrderStatus]int64{},
		Revenue:        decimal.Zero,
		InventoryValue: decimal.Zero,
	}

	var err error
	if stats.TotalProducts, err = s.products.Count(); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categories.Count(); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orders.Count(); err != nil {
		return nil, err
	}

	for _, status := range []models.OrderStatus{
		models.OrderPending, models.OrderProcessing, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled,
	} {
		n, err := s.orders.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = n
	}

	var paid []models.Order
	err = orm.DB().Model(&models.Order{}).
		Where("payment = ?", models.PaymentPaid).
		Get(&paid)
	if err != nil {
		return nil, err
	}
	for i := range paid {
		stats.Revenue = stats.Revenue.Add(paid[i].Total)
	}

	var pending int64
	err = orm.DB().Model(&models.Order{}).
		Where("payment = ?", models.PaymentPending).
		Count(&pending)
	if err != nil {
		return nil, err
	}
	stats.PendingPayments = pending

	products, err := s.products.All()
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		stats.InventoryValue = stats.InventoryValue.Add(p.InventoryValue())
		if p.TotalQuantity() <= lowStockThreshold {
			stats.LowStock = append(stats.LowStock, *p)
		}
	}

	recentProducts, err := s.products.Recent(5)
	if err != nil {
		return nil, err
	}
	stats.RecentProducts = recentProducts

	recent, _, err := s.orders.All("", 1, 10)
	if err != nil {
		return nil, err
	}
	stats.RecentOrders = recent

	return stats, nil
}
