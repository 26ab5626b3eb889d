package services

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/andreimonforte/malocozz/app/cart"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/database"
)

// setupDB swaps the global connection for a fresh in-memory SQLite database.
func setupDB(t *testing.T) *gorm.DB {
	return setupDBAt(t, ":memory:")
}

// setupFileDB uses a file-backed database so pooled connections genuinely
// contend; the in-memory database runs everything over a single handle.
func setupFileDB(t *testing.T) *gorm.DB {
	return setupDBAt(t, "file:"+filepath.Join(t.TempDir(), "shop.db")+"?_busy_timeout=5000")
}

func setupDBAt(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, price string, stock models.SizeQuantities) *models.Product {
	t.Helper()

	category := models.Category{Name: "Jackets " + code}
	require.NoError(t, db.Create(&category).Error)

	p := models.Product{
		Code:           code,
		Name:           "Classic Denim Jacket",
		CategoryID:     category.ID,
		Color:          "Blue",
		Price:          decimal.RequireFromString(price),
		SizeQuantities: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func cartWith(lines ...cart.Line) *cart.Cart {
	return &cart.Cart{Lines: lines}
}

func line(p *models.Product, size string, qty int) cart.Line {
	return cart.Line{
		ProductID:   p.ID,
		ProductCode: p.Code,
		ProductName: p.Name,
		Size:        size,
		UnitPrice:   p.Price,
		Quantity:    qty,
	}
}

func validCheckout() CheckoutInput {
	return CheckoutInput{
		FirstName: "Andrei",
		LastName:  "Monforte",
		Email:     "andrei@example.com",
		Phone:     "09171234567",
		Address:   "123 Mabini Street, Quezon City",
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT001", "299.99", models.SizeQuantities{"S": 5, "M": 10})

	svc := NewCheckoutService()
	order, err := svc.PlaceOrder(1, cartWith(line(p, "S", 2)), validCheckout())
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, order.OrderNumber)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.Payment)
	assert.Equal(t, "Cash on Delivery", order.PaymentMethod)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("599.98")), "subtotal %s", order.Subtotal)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "JKT001", order.Items[0].ProductCode)
	assert.Equal(t, 2, order.Items[0].Quantity)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 3, fresh.Available("S"))
	assert.Equal(t, 10, fresh.Available("M"))

	var customer models.Customer
	require.NoError(t, db.Where("user_id = ?", 1).First(&customer).Error)
	assert.Equal(t, "andrei@example.com", customer.Email)
	assert.Equal(t, customer.ID, order.CustomerID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	setupDB(t)

	_, err := NewCheckoutService().PlaceOrder(1, &cart.Cart{}, validCheckout())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT002", "100.00", models.SizeQuantities{"M": 1})

	_, err := NewCheckoutService().PlaceOrder(1, cartWith(line(p, "M", 1)), CheckoutInput{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"first_name", "last_name", "email", "phone", "address"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT003", "100.00", models.SizeQuantities{"S": 5})

	_, err := NewCheckoutService().PlaceOrder(1, cartWith(line(p, "S", 6)), validCheckout())

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "JKT003", stockErr.ProductCode)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 5, fresh.Available("S"))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderRollsBackAllLines(t *testing.T) {
	db := setupDB(t)
	a := seedProduct(t, db, "TEE001", "49.99", models.SizeQuantities{"M": 10})
	b := seedProduct(t, db, "TEE002", "59.99", models.SizeQuantities{"L": 1})

	_, err := NewCheckoutService().PlaceOrder(1,
		cartWith(line(a, "M", 3), line(b, "L", 2)), validCheckout())

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "TEE002", stockErr.ProductCode)

	// First line's decrement must not survive the rollback.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, a.ID).Error)
	assert.Equal(t, 10, fresh.Available("M"))
}

func TestPlaceOrderDeletedProduct(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT004", "100.00", models.SizeQuantities{"S": 2})
	c := cartWith(line(p, "S", 1))
	require.NoError(t, db.Delete(&models.Product{}, p.ID).Error)

	_, err := NewCheckoutService().PlaceOrder(1, c, validCheckout())

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, stockErr.Available)
}

func TestPlaceOrderLastUnitSellsOnce(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT005", "100.00", models.SizeQuantities{"S": 1})

	svc := NewCheckoutService()
	_, err := svc.PlaceOrder(1, cartWith(line(p, "S", 1)), validCheckout())
	require.NoError(t, err)

	_, err = svc.PlaceOrder(2, cartWith(line(p, "S", 1)), validCheckout())
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, stockErr.Available)
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	db := setupFileDB(t)
	p := seedProduct(t, db, "JKT009", "100.00", models.SizeQuantities{"S": 1})

	// Two shoppers race for the last unit. The loser fails with either a
	// stock error or a transaction conflict; against SQLite, which has no
	// row locks, writes serialise on the database instead.
	svc := NewCheckoutService()
	start := make(chan struct{})
	results := make(chan error, 2)
	for _, userID := range []uint{1, 2} {
		userID := userID
		go func() {
			<-start
			_, err := svc.PlaceOrder(userID, cartWith(line(p, "S", 1)), validCheckout())
			results <- err
		}()
	}
	close(start)

	wins := 0
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			wins++
		}
	}
	assert.LessOrEqual(t, wins, 1, "the last unit sold more than once")

	// Committed state must match the winners exactly.
	var sold int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&sold).Error)
	assert.EqualValues(t, wins, sold)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, p.ID).Error)
	assert.Equal(t, 1-wins, fresh.Available("S"))
}

func TestPlaceOrderRefreshesCustomer(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT006", "100.00", models.SizeQuantities{"S": 5})

	svc := NewCheckoutService()
	_, err := svc.PlaceOrder(7, cartWith(line(p, "S", 1)), validCheckout())
	require.NoError(t, err)

	in := validCheckout()
	in.Phone = "09998887766"
	in.Address = "456 Rizal Avenue, Makati City"
	_, err = svc.PlaceOrder(7, cartWith(line(p, "S", 1)), in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var customer models.Customer
	require.NoError(t, db.Where("user_id = ?", 7).First(&customer).Error)
	assert.Equal(t, "09998887766", customer.Phone)
}

func TestPlaceOrderChargesCartPrice(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT008", "80.00", models.SizeQuantities{"S": 5})
	c := cartWith(line(p, "S", 2))

	// Admin raises the price after the line went into the cart.
	p.Price = decimal.RequireFromString("100.00")
	require.NoError(t, db.Save(p).Error)

	order, err := NewCheckoutService().PlaceOrder(1, c, validCheckout())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("80.00")),
		"unit price %s", order.Items[0].UnitPrice)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("160.00")),
		"subtotal %s", order.Subtotal)
}

func TestPlaceOrderTotals(t *testing.T) {
	db := setupDB(t)
	p := seedProduct(t, db, "JKT007", "100.00", models.SizeQuantities{"S": 5})

	order, err := NewCheckoutService().PlaceOrder(1, cartWith(line(p, "S", 2)), validCheckout())
	require.NoError(t, err)

	// Default shipping and tax rates are zero, so total equals subtotal.
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.ShippingCost).Add(order.Tax)))
}
