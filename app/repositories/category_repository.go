package repositories

import (
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/orm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name").Get(&categories)
	return categories, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var category models.Category
	err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&category)
	return category, err
}

// FindByName looks up a category by its unique name.
func (r *CategoryRepository) FindByName(name string) (models.Category, error) {
	var category models.Category
	err := orm.DB().Model(&models.Category{}).Where("name = ?", name).First(&category)
	return category, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(category *models.Category) error {
	return orm.DB().Create(category)
}

// Update persists changes to an existing category.
func (r *CategoryRepository) Update(category *models.Category) error {
	return orm.DB().Save(category)
}

// Delete soft-deletes a category.
func (r *CategoryRepository) Delete(category *models.Category) error {
	return orm.DB().Delete(category)
}

// Count returns how many live categories exist.
func (r *CategoryRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Category{}).Count(&n)
	return n, err
}

// ProductCount returns how many live products reference the category.
func (r *CategoryRepository) ProductCount(id uint) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Product{}).Where("category_id = ?", id).Count(&n)
	return n, err
}
