package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/cart"
	"github.com/andreimonforte/malocozz/app/models"
)

func jacket() *models.Product {
	return &models.Product{
		Model: gorm.Model{ID: 1},
		Code:  "JKT001",
		Name:  "Classic Denim Jacket",
		Color: "Blue",
		Price: decimal.RequireFromString("299.99"),
		SizeQuantities: models.SizeQuantities{
			"S": 5, "M": 10, "L": 3,
		},
	}
}

func TestAddNewLine(t *testing.T) {
	c := &cart.Cart{}
	require.NoError(t, c.Add(jacket(), "M", 2))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "JKT001", c.Lines[0].ProductCode)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 2, c.Count())
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("599.98")))
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	c := &cart.Cart{}
	p := jacket()
	require.NoError(t, c.Add(p, "M", 2))
	require.NoError(t, c.Add(p, "M", 3))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestAddDifferentSizesAreSeparateLines(t *testing.T) {
	c := &cart.Cart{}
	p := jacket()
	require.NoError(t, c.Add(p, "M", 1))
	require.NoError(t, c.Add(p, "L", 1))

	assert.Len(t, c.Lines, 2)
}

func TestAddInvalidSize(t *testing.T) {
	c := &cart.Cart{}
	assert.ErrorIs(t, c.Add(jacket(), "XXXL", 1), models.ErrInvalidSize)
}

func TestAddSizeNotCarried(t *testing.T) {
	c := &cart.Cart{}
	// XL is a valid label but this product does not stock it.
	assert.ErrorIs(t, c.Add(jacket(), "XL", 1), models.ErrInvalidSize)
}

func TestAddBeyondStock(t *testing.T) {
	c := &cart.Cart{}
	p := jacket()
	require.NoError(t, c.Add(p, "L", 2))

	err := c.Add(p, "L", 2) // merged 4 > 3 on hand
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "JKT001", stockErr.ProductCode)
	assert.Equal(t, "L", stockErr.Size)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// The failed add must not have touched the existing line.
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	c := &cart.Cart{}
	p := jacket()
	require.NoError(t, c.Add(p, "M", 1))

	require.NoError(t, c.SetQuantity(p, "M", 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)

	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, c.SetQuantity(p, "M", 11), &stockErr)

	// Zero removes the line.
	require.NoError(t, c.SetQuantity(p, "M", 0))
	assert.True(t, c.IsEmpty())
}

func TestRemoveAndClear(t *testing.T) {
	c := &cart.Cart{}
	p := jacket()
	require.NoError(t, c.Add(p, "M", 1))
	require.NoError(t, c.Add(p, "S", 1))

	c.Remove(p.ID, "M")
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, "S", c.Lines[0].Size)

	c.Remove(99, "S") // unknown product is a no-op
	assert.Len(t, c.Lines, 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}
