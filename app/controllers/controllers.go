// Package controllers maps HTTP requests onto the service layer and turns
// service errors into JSON responses.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/otp"
	"github.com/andreimonforte/malocozz/pkg/response"
)

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page and ?limit with defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// respondErr maps domain errors onto HTTP responses. Unknown errors become
// an opaque 500 so internals never leak.
func respondErr(w http.ResponseWriter, err error) {
	var (
		valErr   *services.ValidationError
		stockErr *models.InsufficientStockError
		otpErr   *otp.MismatchError
	)

	switch {
	case errors.As(err, &valErr):
		response.ValidationError(w, valErr.Fields)
	case errors.As(err, &stockErr):
		response.Error(w, http.StatusConflict, stockErr.Error())
	case errors.As(err, &otpErr):
		response.Error(w, http.StatusUnprocessableEntity, otpErr.Error())
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrAccessDenied):
		response.Forbidden(w)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrInactive),
		errors.Is(err, services.ErrUseAdminLogin):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrCategoryInUse),
		errors.Is(err, models.ErrInvalidSize):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, otp.ErrNoChallenge),
		errors.Is(err, otp.ErrExpired),
		errors.Is(err, otp.ErrTooManyAttempts):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrPaymentUnavailable):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
