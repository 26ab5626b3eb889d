package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/pkg/validate"
)

// ErrCategoryInUse is returned when deleting a category that still has
// products.
var ErrCategoryInUse = errors.New("category still has products")

// CategoryService implements category CRUD.
type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService() *CategoryService {
	return &CategoryService{categories: repositories.NewCategoryRepository()}
}

// CategoryInput is the create/update payload.
type CategoryInput struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=500"`
}

// List returns every category ordered by name.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categories.All()
}

// Get returns one category by ID.
func (s *CategoryService) Get(id uint) (models.Category, error) {
	category, err := s.categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return category, ErrNotFound
	}
	return category, err
}

// Create adds a category with a unique name.
func (s *CategoryService) Create(in CategoryInput) (*models.Category, error) {
	errs := validate.Struct(&in)
	if _, err := s.categories.FindByName(in.Name); err == nil {
		errs["name"] = "The category name is already taken."
	}
	if validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}

	category := &models.Category{Name: in.Name, Description: in.Description}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames or re-describes a category. The new name must stay unique.
func (s *CategoryService) Update(id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	errs := validate.Struct(&in)
	if existing, err := s.categories.FindByName(in.Name); err == nil && existing.ID != id {
		errs["name"] = "The category name is already taken."
	}
	if validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}

	category.Name = in.Name
	category.Description = in.Description
	if err := s.categories.Update(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete soft-deletes a category. A category that still has live products
// cannot be removed.
func (s *CategoryService) Delete(id uint) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}

	n, err := s.categories.ProductCount(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}

	return s.categories.Delete(&category)
}
