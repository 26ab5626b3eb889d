package controllers

import (
	"net/http"

	"github.com/andreimonforte/malocozz/app/cart"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/response"
	"github.com/andreimonforte/malocozz/pkg/session"
)

// CheckoutController turns the session cart into an order.
type CheckoutController struct {
	checkout *services.CheckoutService
	payments *services.PaymentService
	orders   *services.OrderService
}

func NewCheckoutController() *CheckoutController {
	return &CheckoutController{
		checkout: services.NewCheckoutService(),
		payments: services.NewPaymentService(),
		orders:   services.NewOrderService(),
	}
}

type checkoutResult struct {
	Order       interface{} `json:"order"`
	PaymentLink string      `json:"payment_link,omitempty"`
}

// Place validates the shipping form, reserves stock and creates the order.
// The cart is cleared only after the transaction commits. For PayMongo
// orders a hosted payment link comes back with the order.
func (c *CheckoutController) Place(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sess := session.FromCtx(r)
	shopCart := cart.FromSession(sess)
	userID := middleware.UserIDFromCtx(r.Context())

	order, err := c.checkout.PlaceOrder(userID, shopCart, in)
	if err != nil {
		respondErr(w, err)
		return
	}

	shopCart.Clear()
	if err := shopCart.Store(sess); err == nil {
		sess.Save(w) //nolint:errcheck
	}

	result := checkoutResult{Order: order}
	if order.PaymentMethod == "PayMongo" {
		if link, err := c.payments.CreateLink(order); err == nil {
			result.PaymentLink = link
		}
		// A gateway hiccup does not undo the order; payment stays Unpaid
		// and can be retried from the order page.
	}

	response.Created(w, result)
}

// Pay requests a fresh hosted payment link for one of the user's orders.
func (c *CheckoutController) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.GetForUser(id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	link, err := c.payments.CreateLink(&order)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"payment_link": link})
}

// RefreshPayment polls the gateway for the link's outcome and settles the
// order's payment status.
func (c *CheckoutController) RefreshPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in struct {
		LinkID string `json:"link_id" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.GetForUser(id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}

	status, err := c.payments.CheckLink(&order, in.LinkID)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"payment_status": string(status)})
}
