package models

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a size label is not one of ValidSizes.
var ErrInvalidSize = errors.New("invalid size")

// InsufficientStockError reports that a (product, size) pair cannot cover the
// requested quantity. Available is the quantity on hand at the time of the
// check; it is 0 when the product no longer carries the size at all.
type InsufficientStockError struct {
	ProductCode string
	Size        string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s size %s: requested %d, available %d",
		e.ProductCode, e.Size, e.Requested, e.Available)
}
