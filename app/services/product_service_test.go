package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/models"
)

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func productInput(categoryID uint) ProductInput {
	return ProductInput{
		Code:       "JKT010",
		Name:       "Bomber Jacket",
		CategoryID: categoryID,
		Color:      "Olive",
		Price:      "199.99",
		Sizes: []models.SizeStock{
			{Label: "s", Quantity: 4},
			{Label: "M", Quantity: 6},
		},
	}
}

func TestProductCreate(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	p, err := NewProductService().Create(productInput(category.ID))
	require.NoError(t, err)

	assert.Equal(t, "JKT010", p.Code)
	// Labels are normalised to upper case.
	assert.Equal(t, 4, p.Available("S"))
	assert.Equal(t, 6, p.Available("M"))
	assert.Equal(t, 10, p.TotalQuantity())
}

func TestProductCreateDuplicateCode(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	svc := NewProductService()
	_, err := svc.Create(productInput(category.ID))
	require.NoError(t, err)

	_, err = svc.Create(productInput(category.ID))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")
}

func TestProductCreateValidation(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	cases := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
	}{
		{"zero price", func(in *ProductInput) { in.Price = "0" }, "price"},
		{"negative price", func(in *ProductInput) { in.Price = "-5" }, "price"},
		{"garbage price", func(in *ProductInput) { in.Price = "cheap" }, "price"},
		{"unknown size", func(in *ProductInput) { in.Sizes = []models.SizeStock{{Label: "XXXL", Quantity: 1}} }, "sizes"},
		{"negative quantity", func(in *ProductInput) { in.Sizes = []models.SizeStock{{Label: "M", Quantity: -1}} }, "sizes"},
		{"duplicate size", func(in *ProductInput) {
			in.Sizes = []models.SizeStock{{Label: "M", Quantity: 1}, {Label: "m", Quantity: 2}}
		}, "sizes"},
		{"missing category", func(in *ProductInput) { in.CategoryID = 9999 }, "category_id"},
	}

	svc := NewProductService()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := productInput(category.ID)
			c.mutate(&in)

			_, err := svc.Create(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, c.field)
		})
	}
}

func TestProductUpdateKeepsCodeUnique(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	svc := NewProductService()
	first, err := svc.Create(productInput(category.ID))
	require.NoError(t, err)

	in := productInput(category.ID)
	in.Code = "JKT011"
	second, err := svc.Create(in)
	require.NoError(t, err)

	// Renaming second to first's code must fail ...
	in.Code = first.Code
	_, err = svc.Update(second.ID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")

	// ... but re-saving under its own code is fine.
	in.Code = "JKT011"
	in.Name = "Varsity Jacket"
	updated, err := svc.Update(second.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Varsity Jacket", updated.Name)
}

func TestProductDeleteIsSoft(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	svc := NewProductService()
	p, err := svc.Create(productInput(category.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(p.ID))

	_, err = svc.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var fresh models.Product
	require.NoError(t, db.Unscoped().First(&fresh, p.ID).Error)
	assert.True(t, fresh.DeletedAt.Valid)
}

func TestProductUploadImageRejectsBadExt(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	svc := NewProductService()
	p, err := svc.Create(productInput(category.ID))
	require.NoError(t, err)

	_, err = svc.UploadImage(p.ID, "photo.exe", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestExportCSV(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "Jackets")

	svc := NewProductService()
	_, err := svc.Create(productInput(category.ID))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	assert.Equal(t, []string{
		"code", "name", "description", "category", "color", "price",
		"qty_xs", "qty_s", "qty_m", "qty_l", "qty_xl", "qty_xxl",
		"total_quantity",
	}, header)

	row := rows[1]
	assert.Equal(t, "JKT010", row[0])
	assert.Equal(t, "Jackets", row[3])
	assert.Equal(t, "199.99", row[5])
	assert.Equal(t, "4", row[7])  // qty_s
	assert.Equal(t, "6", row[8])  // qty_m
	assert.Equal(t, "10", row[12])
}
