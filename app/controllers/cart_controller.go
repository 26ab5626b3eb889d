package controllers

import (
	"net/http"

	"github.com/andreimonforte/malocozz/app/cart"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/response"
	"github.com/andreimonforte/malocozz/pkg/session"
)

// CartController handles the session cart. Every mutation re-reads the
// product so size and stock checks run against the current catalogue.
type CartController struct {
	products *services.ProductService
}

func NewCartController() *CartController {
	return &CartController{products: services.NewProductService()}
}

type cartView struct {
	Lines    []cart.Line `json:"lines"`
	Count    int         `json:"count"`
	Subtotal string      `json:"subtotal"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{
		Lines:    c.Lines,
		Count:    c.Count(),
		Subtotal: c.Subtotal().StringFixed(2),
	}
}

// save writes the cart into the session and the session onto the response.
func (ctl *CartController) save(w http.ResponseWriter, r *http.Request, c *cart.Cart) bool {
	sess := session.FromCtx(r)
	if err := c.Store(sess); err != nil {
		respondErr(w, err)
		return false
	}
	if err := sess.Save(w); err != nil {
		respondErr(w, err)
		return false
	}
	return true
}

// Show returns the current cart.
func (ctl *CartController) Show(w http.ResponseWriter, r *http.Request) {
	c := cart.FromSession(session.FromCtx(r))
	response.Success(w, viewOf(c))
}

type cartItemInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Size      string `json:"size"       validate:"required,in=XS,S,M,L,XL,XXL"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
}

// Add puts an item into the cart.
func (ctl *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in cartItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := ctl.products.Get(in.ProductID)
	if err != nil {
		respondErr(w, err)
		return
	}

	c := cart.FromSession(session.FromCtx(r))
	if err := c.Add(&product, in.Size, in.Quantity); err != nil {
		respondErr(w, err)
		return
	}
	if ctl.save(w, r, c) {
		response.Success(w, viewOf(c))
	}
}

// Update changes a line's quantity; zero removes the line.
func (ctl *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID uint   `json:"product_id" validate:"required"`
		Size      string `json:"size"       validate:"required,in=XS,S,M,L,XL,XXL"`
		Quantity  int    `json:"quantity"   validate:"gte=0"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := ctl.products.Get(in.ProductID)
	if err != nil {
		respondErr(w, err)
		return
	}

	c := cart.FromSession(session.FromCtx(r))
	if err := c.SetQuantity(&product, in.Size, in.Quantity); err != nil {
		respondErr(w, err)
		return
	}
	if ctl.save(w, r, c) {
		response.Success(w, viewOf(c))
	}
}

// Remove drops a line from the cart.
func (ctl *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID uint   `json:"product_id" validate:"required"`
		Size      string `json:"size"       validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c := cart.FromSession(session.FromCtx(r))
	c.Remove(in.ProductID, in.Size)
	if ctl.save(w, r, c) {
		response.Success(w, viewOf(c))
	}
}

// Clear empties the cart.
func (ctl *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c := cart.FromSession(session.FromCtx(r))
	c.Clear()
	if ctl.save(w, r, c) {
		response.Success(w, viewOf(c))
	}
}
