package auth

import (
	"context"
	"net/http"

	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/utils"
)

type contextKey string

const userKey contextKey = "current_user"

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// Middleware resolves the session cookie on every request and enforces the
// auth requirements of route groups.
type Middleware struct {
	Service    *Service
	CookieName string
}

func NewMiddleware(service *Service, cookieName string) *Middleware {
	return &Middleware{Service: service, CookieName: cookieName}
}

// WithUser resolves the session cookie into a user and stores it in the
// request context. Anonymous requests pass through untouched.
func (m *Middleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.Service.ResolveSession(r.Context(), cookie.Value)
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "no active session"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireNotBanned rejects banned users. Must run inside RequireUser.
func (m *Middleware) RequireNotBanned(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user != nil && user.IsBanned {
			utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Account banned", "banned users cannot perform this action"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects everyone but authenticated admins.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "no active session"))
			return
		}
		if !user.IsAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Admin access required", "insufficient privileges"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
