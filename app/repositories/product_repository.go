package repositories

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Filter narrows a product listing.
type Filter struct {
	CategoryID uint
	Search     string
}

// List returns one page of products matching the filter, newest first,
// with categories preloaded.
func (r *ProductRepository) List(f Filter, page, limit int) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{}).Preload("Category").Order("created_at DESC")

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR code LIKE ? OR description LIKE ?", like, like, like)
	}

	var products []models.Product
	pagination, err := q.Paginate(page, limit, &products)
	return products, pagination, err
}

// All returns every live product with its category.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").Order("code").Get(&products)
	return products, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").Where("id = ?", id).First(&product)
	return product, err
}

// FindByCode looks up a product by its unique code.
func (r *ProductRepository) FindByCode(code string) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").Where("code = ?", code).First(&product)
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return orm.DB().Save(product)
}

// Delete soft-deletes a product. Orders that reference it keep their
// snapshot lines.
func (r *ProductRepository) Delete(product *models.Product) error {
	return orm.DB().Delete(product)
}

// Recent returns the n most recently added products.
func (r *ProductRepository) Recent(n int) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").
		Order("created_at DESC").Limit(n).Get(&products)
	return products, err
}

// Count returns how many live products exist.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Product{}).Count(&n)
	return n, err
}
