package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/andreimonforte/malocozz/app/repositories"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/response"
)

// maxImageBytes caps product photo uploads at 5 MB.
const maxImageBytes = 5 << 20

// ProductController handles the catalogue: public browsing plus the admin
// CRUD, image upload and CSV export.
type ProductController struct {
	products *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{products: services.NewProductService()}
}

// Index lists products with optional ?category, ?q search, and pagination.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("category"), 10, 32)

	f := repositories.Filter{
		CategoryID: uint(categoryID),
		Search:     r.URL.Query().Get("q"),
	}

	products, pagination, err := c.products.List(f, page, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Paginated(w, products, pagination)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, product)
}

// Store creates a product.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(in)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Created(w, product)
}

// Update edits a product.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(id, in)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, product)
}

// Delete soft-deletes a product.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.products.Delete(id); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Product deleted."})
}

// UploadImage accepts a multipart "image" file and stores it.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	product, err := c.products.UploadImage(id, header.Filename, file)
	if err != nil {
		if err == services.ErrBadImage {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondErr(w, err)
		return
	}
	response.Success(w, product)
}

// ExportCSV serves the catalogue as a CSV download. The file is built in
// memory first so an export error still gets a proper JSON response.
func (c *ProductController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.products.ExportCSV(&buf); err != nil {
		respondErr(w, err)
		return
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(buf.Bytes()) //nolint:errcheck
}
