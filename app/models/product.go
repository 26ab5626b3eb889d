package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValidSizes is the fixed set of size labels a product may stock, in display
// order. Any other label is rejected at the edge.
var ValidSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// IsValidSize reports whether label is one of ValidSizes.
func IsValidSize(label string) bool {
	for _, s := range ValidSizes {
		if s == label {
			return true
		}
	}
	return false
}

// SizeQuantities maps a size label to the units in stock for that size.
// Stored as a JSON column so one product row carries its whole size run.
type SizeQuantities map[string]int

// Value implements driver.Valuer.
func (sq SizeQuantities) Value() (driver.Value, error) {
	if sq == nil {
		sq = SizeQuantities{}
	}
	raw, err := json.Marshal(sq)
	if err != nil {
		return nil, fmt.Errorf("size quantities: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (sq *SizeQuantities) Scan(src interface{}) error {
	if src == nil {
		*sq = SizeQuantities{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("size quantities: unsupported column type %T", src)
	}

	if len(raw) == 0 {
		*sq = SizeQuantities{}
		return nil
	}
	return json.Unmarshal(raw, sq)
}

// SizeStock is the structured form input for one size's stock level.
type SizeStock struct {
	Label    string `json:"label"    validate:"required,in=XS,S,M,L,XL,XXL"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// Product is a catalogue item. Price is captured with decimal precision;
// per-size stock lives in SizeQuantities.
type Product struct {
	gorm.Model
	Code           string          `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name           string          `gorm:"size:200;not null;index"      json:"name"`
	Description    string          `gorm:"type:text"                    json:"description"`
	CategoryID     uint            `gorm:"not null;index"               json:"category_id"`
	Category       *Category       `gorm:"foreignKey:CategoryID"        json:"category,omitempty"`
	Color          string          `gorm:"size:50"                      json:"color"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"price"`
	SizeQuantities SizeQuantities  `gorm:"type:text"                    json:"size_quantities"`
	ImageFilename  string          `gorm:"size:255"                     json:"image_filename"`
}

// TotalQuantity sums the stock across all sizes.
func (p *Product) TotalQuantity() int {
	total := 0
	for _, q := range p.SizeQuantities {
		total += q
	}
	return total
}

// Available returns the stock for one size label (0 when the size is absent).
func (p *Product) Available(size string) int {
	return p.SizeQuantities[size]
}

// HasSize reports whether the product carries the given size at all,
// regardless of its current stock level.
func (p *Product) HasSize(size string) bool {
	_, ok := p.SizeQuantities[size]
	return ok
}

// InventoryValue is price multiplied by total stock.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.TotalQuantity())))
}
