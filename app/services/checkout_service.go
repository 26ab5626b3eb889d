package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/cart"
	"github.com/andreimonforte/malocozz/app/jobs"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/config"
	"github.com/andreimonforte/malocozz/pkg/database"
	"github.com/andreimonforte/malocozz/pkg/event"
	"github.com/andreimonforte/malocozz/pkg/logger"
	"github.com/andreimonforte/malocozz/pkg/metrics"
	"github.com/andreimonforte/malocozz/pkg/queue"
	"github.com/andreimonforte/malocozz/pkg/validate"
)

var (
	ordersPlaced = metrics.NewCounter("malocozz_shop", "orders_placed_total",
		"Orders successfully placed.", []string{"payment_method"})
	checkoutConflicts = metrics.NewCounter("malocozz_shop", "checkout_stock_conflicts_total",
		"Checkouts rejected because stock ran out between cart and commit.", nil)
)

// CheckoutService turns a cart into an order inside one database
// transaction. Stock rows are locked and re-checked at commit time, so two
// shoppers racing for the last unit cannot both win.
type CheckoutService struct {
	customers *repositories.CustomerRepository
}

func NewCheckoutService() *CheckoutService {
	return &CheckoutService{customers: repositories.NewCustomerRepository()}
}

// CheckoutInput is the shipping and payment form.
type CheckoutInput struct {
	FirstName     string `json:"first_name"     validate:"required,max=100"`
	LastName      string `json:"last_name"      validate:"required,max=100"`
	Email         string `json:"email"          validate:"required,email"`
	Phone         string `json:"phone"          validate:"required,min=7,max=20"`
	Address       string `json:"address"        validate:"required,min=10,max=500"`
	PaymentMethod string `json:"payment_method" validate:"nullable,in=Cash on Delivery,PayMongo"`
}

// PlaceOrder validates the form, reserves stock and creates the order. On
// any failure nothing is written: the transaction rolls back as a unit.
//
// Stock is re-read from the database under row locks, so two shoppers
// cannot both take the last unit. Prices are NOT re-read: the shopper pays
// the unit price the cart captured at add time, even if the catalogue
// changed since.
func (s *CheckoutService) PlaceOrder(userID uint, c *cart.Cart, in CheckoutInput) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "Cash on Delivery"
	}

	number, err := generateOrderNumber()
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(c.Lines))

		for i := range c.Lines {
			line := &c.Lines[i]

			var product models.Product
			err := lockForUpdate(tx).First(&product, line.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Product was removed since it went into the cart.
					return &models.InsufficientStockError{
						ProductCode: line.ProductCode,
						Size:        line.Size,
						Requested:   line.Quantity,
						Available:   0,
					}
				}
				return err
			}

			available := product.Available(line.Size)
			if line.Quantity > available {
				return &models.InsufficientStockError{
					ProductCode: product.Code,
					Size:        line.Size,
					Requested:   line.Quantity,
					Available:   available,
				}
			}

			product.SizeQuantities[line.Size] = available - line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			item := models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductCode: product.Code,
				Size:        line.Size,
				Color:       product.Color,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			subtotal = subtotal.Add(item.LineTotal())
			items = append(items, item)
		}

		customer, err := s.upsertCustomer(tx, userID, in)
		if err != nil {
			return err
		}

		shipping := decimalFromConfig(config.ShippingFlatRate())
		tax := subtotal.Mul(decimalFromConfig(config.TaxRate())).Round(2)

		order = models.Order{
			OrderNumber:     number,
			UserID:          userID,
			CustomerID:      customer.ID,
			Status:          models.OrderPending,
			Payment:         models.PaymentUnpaid,
			PaymentMethod:   in.PaymentMethod,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			Tax:             tax,
			Total:           subtotal.Add(shipping).Add(tax),
			ShippingAddress: in.Address,
			ShippingPhone:   in.Phone,
			Items:           items,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			checkoutConflicts.WithLabelValues().Inc()
		}
		return nil, err
	}

	ordersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	logger.Info("order placed",
		"order_number", order.OrderNumber, "user_id", userID, "total", order.Total.String())
	event.FireAsync("order.placed", order)

	if err := queue.Dispatch(jobs.OrderConfirmationJob{
		Email:       in.Email,
		Name:        in.FirstName,
		OrderNumber: order.OrderNumber,
		Total:       order.Total.StringFixed(2),
	}); err != nil {
		logger.Error("order confirmation dispatch failed",
			"order_number", order.OrderNumber, "error", err)
	}

	return &order, nil
}

// upsertCustomer reuses the customer profile linked to the user, refreshing
// its contact details, or creates one.
func (s *CheckoutService) upsertCustomer(tx *gorm.DB, userID uint, in CheckoutInput) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("user_id = ?", userID).First(&customer).Error
	switch {
	case err == nil:
		customer.FirstName = in.FirstName
		customer.LastName = in.LastName
		customer.Email = in.Email
		customer.Phone = in.Phone
		customer.Address = in.Address
		return &customer, tx.Save(&customer).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Address:   in.Address,
			UserID:    &userID,
		}
		return &customer, tx.Create(&customer).Error
	default:
		return nil, err
	}
}

// generateOrderNumber builds a public order number like ORD-20260901-A3F2C1.
func generateOrderNumber() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(b))), nil
}

func decimalFromConfig(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}
