package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/andreimonforte/malocozz/pkg/auth"
	"github.com/andreimonforte/malocozz/pkg/response"
	"github.com/andreimonforte/malocozz/pkg/session"
)

type userIDKey struct{}
type roleKey struct{}

// Session keys written at login.
const (
	SessionUserID = "user_id"
	SessionRole   = "role"
)

// RequireLogin admits requests carrying a logged-in session, or a valid
// bearer token as an API fallback. The user ID and role land in the request
// context.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if id, ok := sess.GetInt(SessionUserID); ok && id > 0 {
			role, _ := sess.GetString(SessionRole)
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), uint(id), role)))
			return
		}

		if token := bearerToken(r); token != "" {
			claims, err := auth.ValidateToken(token)
			if err == nil && claims.Purpose == auth.PurposeAccess {
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims.UserID, claims.Role)))
				return
			}
		}

		response.Unauthorized(w)
	})
}

// RequireAdmin admits only logged-in admins. Stack it after RequireLogin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromCtx(r.Context()) != "admin" {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, id uint, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, id)
	return context.WithValue(ctx, roleKey{}, role)
}

// UserIDFromCtx returns the authenticated user's ID, or 0.
func UserIDFromCtx(ctx context.Context) uint {
	if id, ok := ctx.Value(userIDKey{}).(uint); ok {
		return id
	}
	return 0
}

// RoleFromCtx returns the authenticated user's role, or "".
func RoleFromCtx(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey{}).(string); ok {
		return role
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
