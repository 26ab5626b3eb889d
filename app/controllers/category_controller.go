package controllers

import (
	"net/http"

	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/response"
)

// CategoryController handles category CRUD. Reads are public; writes are
// mounted behind the admin guard.
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController() *CategoryController {
	return &CategoryController{categories: services.NewCategoryService()}
}

// Index lists every category.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.List()
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, categories)
}

// Show returns one category.
func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	category, err := c.categories.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, category)
}

// Store creates a category.
func (c *CategoryController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.categories.Create(in)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Created(w, category)
}

// Update edits a category.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.CategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.categories.Update(id, in)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, category)
}

// Delete removes an empty category.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.categories.Delete(id); err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Category deleted."})
}
