package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndRename(t *testing.T) {
	setupDB(t)

	svc := NewCategoryService()
	created, err := svc.Create(CategoryInput{Name: "Jackets"})
	require.NoError(t, err)

	_, err = svc.Create(CategoryInput{Name: "Jackets"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	renamed, err := svc.Update(created.ID, CategoryInput{Name: "Outerwear"})
	require.NoError(t, err)
	assert.Equal(t, "Outerwear", renamed.Name)
}

func TestCategoryUpdateRejectsTakenName(t *testing.T) {
	setupDB(t)

	svc := NewCategoryService()
	_, err := svc.Create(CategoryInput{Name: "Jackets"})
	require.NoError(t, err)
	second, err := svc.Create(CategoryInput{Name: "Shirts"})
	require.NoError(t, err)

	_, err = svc.Update(second.ID, CategoryInput{Name: "Jackets"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	// Saving under its own name is not a conflict.
	_, err = svc.Update(second.ID, CategoryInput{Name: "Shirts", Description: "Tees and polos"})
	assert.NoError(t, err)
}

func TestCategoryDeleteInUse(t *testing.T) {
	setupDB(t)

	categories := NewCategoryService()
	category, err := categories.Create(CategoryInput{Name: "Jackets"})
	require.NoError(t, err)

	products := NewProductService()
	in := productInput(category.ID)
	product, err := products.Create(in)
	require.NoError(t, err)

	assert.ErrorIs(t, categories.Delete(category.ID), ErrCategoryInUse)

	// Once the product is gone the category can be removed.
	require.NoError(t, products.Delete(product.ID))
	assert.NoError(t, categories.Delete(category.ID))

	_, err = categories.Get(category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
