package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/pkg/orm"
	"github.com/andreimonforte/malocozz/pkg/storage"
	"github.com/andreimonforte/malocozz/pkg/validate"
)

// imageDir is where product photos live on the storage disk.
const imageDir = "products"

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ErrBadImage is returned for uploads that are not a supported image type.
var ErrBadImage = errors.New("unsupported image type")

// ProductService implements catalogue CRUD, image upload and CSV export.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductService() *ProductService {
	return &ProductService{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// ProductInput is the create/update payload. Price arrives as a string so it
// can be parsed into an exact decimal; sizes carry per-size quantities.
type ProductInput struct {
	Code        string             `json:"code"        validate:"required,alpha_num,min=3,max=50"`
	Name        string             `json:"name"        validate:"required,min=2,max=200"`
	Description string             `json:"description" validate:"nullable,max=2000"`
	CategoryID  uint               `json:"category_id" validate:"required"`
	Color       string             `json:"color"       validate:"nullable,max=50"`
	Price       string             `json:"price"       validate:"required,numeric"`
	Sizes       []models.SizeStock `json:"sizes"       validate:"required"`
}

// check validates the input beyond struct tags: price parses and is positive,
// size labels are known and unique, quantities are non-negative.
func (s *ProductService) check(in *ProductInput) (decimal.Decimal, models.SizeQuantities, map[string]string) {
	errs := validate.Struct(in)

	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		if _, dup := errs["price"]; !dup {
			errs["price"] = "The price must be greater than 0."
		}
	}

	quantities := models.SizeQuantities{}
	for _, sz := range in.Sizes {
		label := strings.ToUpper(strings.TrimSpace(sz.Label))
		switch {
		case !models.IsValidSize(label):
			errs["sizes"] = fmt.Sprintf("The size %q is not valid.", sz.Label)
		case sz.Quantity < 0:
			errs["sizes"] = fmt.Sprintf("The quantity for size %s must not be negative.", label)
		default:
			if _, dup := quantities[label]; dup {
				errs["sizes"] = fmt.Sprintf("The size %s is listed twice.", label)
				continue
			}
			quantities[label] = sz.Quantity
		}
	}

	if in.CategoryID != 0 {
		if _, err := s.categories.FindByID(in.CategoryID); err != nil {
			errs["category_id"] = "The selected category does not exist."
		}
	}

	return price, quantities, errs
}

// List returns one page of products matching the filter.
func (s *ProductService) List(f repositories.Filter, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.List(f, page, limit)
}

// Get returns one product by ID.
func (s *ProductService) Get(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrNotFound
	}
	return product, err
}

// GetByCode returns one product by its unique code.
func (s *ProductService) GetByCode(code string) (models.Product, error) {
	product, err := s.products.FindByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrNotFound
	}
	return product, err
}

// Create adds a product with a unique code.
func (s *ProductService) Create(in ProductInput) (*models.Product, error) {
	price, quantities, errs := s.check(&in)
	if _, err := s.products.FindByCode(in.Code); err == nil {
		errs["code"] = "The product code is already taken."
	}
	if validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}

	product := &models.Product{
		Code:           strings.ToUpper(in.Code),
		Name:           in.Name,
		Description:    in.Description,
		CategoryID:     in.CategoryID,
		Color:          in.Color,
		Price:          price,
		SizeQuantities: quantities,
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces the editable fields of a product.
func (s *ProductService) Update(id uint, in ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	price, quantities, errs := s.check(&in)
	if existing, err := s.products.FindByCode(in.Code); err == nil && existing.ID != id {
		errs["code"] = "The product code is already taken."
	}
	if validate.HasErrors(errs) {
		return nil, NewValidationError(errs)
	}

	product.Code = strings.ToUpper(in.Code)
	product.Name = in.Name
	product.Description = in.Description
	product.CategoryID = in.CategoryID
	product.Color = in.Color
	product.Price = price
	product.SizeQuantities = quantities
	if err := s.products.Update(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete soft-deletes a product. It disappears from the catalogue but order
// history keeps its snapshot lines, and a later cancellation can still
// restore its stock.
func (s *ProductService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.products.Delete(&product)
}

// UploadImage stores a product photo on the storage disk and records the
// filename. A previous photo is removed.
func (s *ProductService) UploadImage(id uint, filename string, r io.Reader) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, ErrBadImage
	}

	stored := fmt.Sprintf("%s/%s%s", imageDir, product.Code, ext)
	if err := storage.PutStream(stored, r); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if product.ImageFilename != "" && product.ImageFilename != stored {
		storage.Delete(product.ImageFilename) //nolint:errcheck
	}

	product.ImageFilename = stored
	if err := s.products.Update(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ExportCSV writes the full catalogue as CSV, one row per product.
func (s *ProductService) ExportCSV(w io.Writer) error {
	products, err := s.products.All()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"code", "name", "description", "category", "color", "price"}
	for _, size := range models.ValidSizes {
		header = append(header, "qty_"+strings.ToLower(size))
	}
	header = append(header, "total_quantity")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range products {
		p := &products[i]
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		row := []string{
			p.Code, p.Name, p.Description, categoryName, p.Color,
			p.Price.StringFixed(2),
		}
		for _, size := range models.ValidSizes {
			row = append(row, strconv.Itoa(p.SizeQuantities[size]))
		}
		row = append(row, strconv.Itoa(p.TotalQuantity()))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
