package controllers

import (
	"net/http"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/response"
)

// OrderController serves a shopper's own orders plus the admin order desk.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

// Index lists the logged-in user's orders.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	userID := middleware.UserIDFromCtx(r.Context())

	orders, pagination, err := c.orders.ListForUser(userID, page, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Paginated(w, orders, pagination)
}

// Show returns one of the user's own orders with its tracking timeline.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
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
	response.Success(w, map[string]interface{}{
		"order":    order,
		"timeline": order.Timeline(),
	})
}

// Cancel cancels one of the user's own orders and restores its stock.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Cancel(id, middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, order)
}

// AdminIndex lists all orders, optionally filtered by ?status.
func (c *OrderController) AdminIndex(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	status := models.OrderStatus(r.URL.Query().Get("status"))

	orders, pagination, err := c.orders.List(status, page, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Paginated(w, orders, pagination)
}

// AdminShow returns any order.
func (c *OrderController) AdminShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"order":    order,
		"timeline": order.Timeline(),
	})
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order along the fulfilment state machine.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(id, models.OrderStatus(in.Status))
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, order)
}

// UpdatePayment moves an order along the payment state machine.
func (c *OrderController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdatePayment(id, models.PaymentStatus(in.Status))
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, order)
}
