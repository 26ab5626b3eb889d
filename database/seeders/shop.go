package seeders

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/auth"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("categories", SeedCategories)
	Register("products", SeedProducts)
	Register("admin", SeedAdmin)
}

// SeedCategories inserts the base catalogue categories. Safe to re-run.
func SeedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Jackets", Description: "Outerwear for every season"},
		{Name: "Shirts", Description: "Tees, polos and button-downs"},
		{Name: "Pants", Description: "Denim, chinos and joggers"},
		{Name: "Accessories", Description: "Caps, belts and bags"},
	}

	for _, c := range categories {
		if err := db.Where(models.Category{Name: c.Name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts inserts a starter catalogue keyed by product code. Safe to
// re-run; existing codes are left untouched.
func SeedProducts(db *gorm.DB) error {
	categoryID := func(name string) (uint, error) {
		var c models.Category
		if err := db.Where("name = ?", name).First(&c).Error; err != nil {
			return 0, err
		}
		return c.ID, nil
	}

	jackets, err := categoryID("Jackets")
	if err != nil {
		return err
	}
	shirts, err := categoryID("Shirts")
	if err != nil {
		return err
	}
	pants, err := categoryID("Pants")
	if err != nil {
		return err
	}
	accessories, err := categoryID("Accessories")
	if err != nil {
		return err
	}

	products := []models.Product{
		{
			Code:           "JKT001",
			Name:           "Classic Denim Jacket",
			Description:    "Stonewashed denim jacket with brass buttons.",
			CategoryID:     jackets,
			Color:          "Blue",
			Price:          decimal.RequireFromString("299.99"),
			SizeQuantities: models.SizeQuantities{"S": 5, "M": 10, "L": 3},
		},
		{
			Code:           "TEE001",
			Name:           "Crewneck Tee",
			Description:    "Heavyweight cotton crewneck.",
			CategoryID:     shirts,
			Color:          "White",
			Price:          decimal.RequireFromString("49.99"),
			SizeQuantities: models.SizeQuantities{"XS": 8, "S": 12, "M": 15, "L": 10, "XL": 6},
		},
		{
			Code:           "TEE002",
			Name:           "Oversized Graphic Tee",
			Description:    "Boxy fit tee with front print.",
			CategoryID:     shirts,
			Color:          "Black",
			Price:          decimal.RequireFromString("59.99"),
			SizeQuantities: models.SizeQuantities{"M": 10, "L": 10, "XL": 5, "XXL": 4},
		},
		{
			Code:           "PNT001",
			Name:           "Tapered Chinos",
			Description:    "Stretch cotton chinos with a tapered leg.",
			CategoryID:     pants,
			Color:          "Khaki",
			Price:          decimal.RequireFromString("129.99"),
			SizeQuantities: models.SizeQuantities{"S": 6, "M": 9, "L": 7, "XL": 4},
		},
		{
			Code:           "ACC001",
			Name:           "Canvas Tote",
			Description:    "Everyday tote in natural canvas.",
			CategoryID:     accessories,
			Color:          "Natural",
			Price:          decimal.RequireFromString("39.99"),
			SizeQuantities: models.SizeQuantities{"M": 20},
		},
	}

	for _, p := range products {
		var existing models.Product
		err := db.Where("code = ?", p.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates a development admin account when none exists. Change the
// password before exposing the instance.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	admin := models.User{
		Username:  "admin",
		Email:     "admin@malocozz.shop",
		Password:  hash,
		FirstName: "Shop",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		Active:    true,
		Verified:  true,
	}
	return db.Create(&admin).Error
}
