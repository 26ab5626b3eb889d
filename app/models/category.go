package models

import "gorm.io/gorm"

// Category groups products. Deleting is always a soft delete so products in
// historical orders keep a valid category reference.
type Category struct {
	gorm.Model
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"type:text"                    json:"description"`
	Products    []Product `gorm:"foreignKey:CategoryID"        json:"-"`
}
