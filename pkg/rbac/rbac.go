// Package rbac provides role-based access control middleware for Malocozz.
package rbac

import (
	"net/http"

	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/response"
	"github.com/andreimonforte/malocozz/pkg/session"
)

// HasRole returns middleware that allows access only to users with one of the
// given roles. Requires RequireLogin to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[middleware.RoleFromCtx(r.Context())] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest returns middleware that blocks authenticated users (useful for
// login and register endpoints).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if id, ok := sess.GetInt(middleware.SessionUserID); ok && id > 0 {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
