package controllers

import (
	"net/http"
	"strings"

	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/bind"
	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/response"
)

// AdminController serves the dashboard and account management.
type AdminController struct {
	dashboard *services.DashboardService
	users     *services.UserService
}

func NewAdminController() *AdminController {
	return &AdminController{
		dashboard: services.NewDashboardService(),
		users:     services.NewUserService(),
	}
}

// Dashboard returns the store-wide stats snapshot.
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats()
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, stats)
}

// Users lists accounts.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, pagination, err := c.users.List(page, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Paginated(w, users, pagination)
}

// Promote grants admin to the account with the posted email.
func (c *AdminController) Promote(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if me, err := c.users.Get(middleware.UserIDFromCtx(r.Context())); err == nil &&
		strings.EqualFold(me.Email, in.Email) {
		response.Error(w, http.StatusUnprocessableEntity, "You cannot change your own role.")
		return
	}

	user, err := c.users.Promote(in.Email)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, user)
}

// SetActive enables or disables an account.
func (c *AdminController) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in struct {
		Active bool `json:"active" validate:"boolean"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !in.Active && id == middleware.UserIDFromCtx(r.Context()) {
		response.Error(w, http.StatusUnprocessableEntity, "You cannot deactivate your own account.")
		return
	}

	user, err := c.users.SetActive(id, in.Active)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Success(w, user)
}
