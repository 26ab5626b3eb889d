package models

import "gorm.io/gorm"

// Customer holds the delivery contact details captured at checkout. A signed-in
// user gets exactly one customer record, refreshed with the latest submitted
// contact fields on every order.
type Customer struct {
	gorm.Model
	FirstName string  `gorm:"size:50;not null"  json:"first_name"`
	LastName  string  `gorm:"size:50;not null"  json:"last_name"`
	Email     string  `gorm:"size:100;index"    json:"email"`
	Phone     string  `gorm:"size:20"           json:"phone"`
	Address   string  `gorm:"type:text"         json:"address"`
	UserID    *uint   `gorm:"index"             json:"user_id,omitempty"`
	Orders    []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// FullName joins the first and last names for display.
func (c *Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
