// Package cart implements the session-backed shopping cart. A cart is a list
// of (product, size) lines. The unit price is captured when a line is added
// and is what the shopper pays at checkout; only stock is re-validated from
// the database when the order is placed.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/session"
)

const sessionKey = "cart"

// Line is one (product, size) entry. Name, color and unit price are copied
// from the catalogue when the line is added so the cart renders without extra
// queries.
type Line struct {
	ProductID     uint            `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	ImageFilename string          `json:"image_filename,omitempty"`
}

// Total is unit price times quantity for this line.
func (l *Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of one shopper's session.
type Cart struct {
	Lines []Line `json:"lines"`
}

// FromSession loads the cart stored in the session, or an empty cart.
func FromSession(s *session.Session) *Cart {
	raw, ok := s.GetString(sessionKey)
	if !ok || raw == "" {
		return &Cart{}
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return &Cart{}
	}
	return &c
}

// Store writes the cart back into the session. The caller is responsible for
// saving the session to the response.
func (c *Cart) Store(s *session.Session) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.Set(sessionKey, string(raw))
	return nil
}

// find returns the index of the (productID, size) line, or -1.
func (c *Cart) find(productID uint, size string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Size == size {
			return i
		}
	}
	return -1
}

// Add puts quantity units of the product in the given size into the cart,
// merging with an existing line for the same (product, size). The merged
// quantity must fit the stock currently on hand.
func (c *Cart) Add(p *models.Product, size string, quantity int) error {
	if !models.IsValidSize(size) || !p.HasSize(size) {
		return models.ErrInvalidSize
	}
	if quantity < 1 {
		quantity = 1
	}

	merged := quantity
	idx := c.find(p.ID, size)
	if idx >= 0 {
		merged += c.Lines[idx].Quantity
	}

	if available := p.Available(size); merged > available {
		return &models.InsufficientStockError{
			ProductCode: p.Code,
			Size:        size,
			Requested:   merged,
			Available:   available,
		}
	}

	if idx >= 0 {
		c.Lines[idx].Quantity = merged
		return nil
	}

	c.Lines = append(c.Lines, Line{
		ProductID:     p.ID,
		ProductCode:   p.Code,
		ProductName:   p.Name,
		Size:          size,
		Color:         p.Color,
		UnitPrice:     p.Price,
		Quantity:      quantity,
		ImageFilename: p.ImageFilename,
	})
	return nil
}

// SetQuantity updates the quantity of an existing line. Zero or negative
// removes the line. The new quantity must fit the stock on hand.
func (c *Cart) SetQuantity(p *models.Product, size string, quantity int) error {
	idx := c.find(p.ID, size)
	if idx < 0 {
		return models.ErrInvalidSize
	}

	if quantity <= 0 {
		c.Remove(p.ID, size)
		return nil
	}

	if available := p.Available(size); quantity > available {
		return &models.InsufficientStockError{
			ProductCode: p.Code,
			Size:        size,
			Requested:   quantity,
			Available:   available,
		}
	}

	c.Lines[idx].Quantity = quantity
	return nil
}

// Remove drops the (productID, size) line if present.
func (c *Cart) Remove(productID uint, size string) {
	idx := c.find(productID, size)
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

// Subtotal sums every line total.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Total())
	}
	return total
}
