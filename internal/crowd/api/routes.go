package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/j10czar/UF-CrowdView/internal/auth"
)

// RegisterRoutes wires the three route groups: public, session-required,
// and admin. The session cookie is resolved once for every request.
func (h *Handler) RegisterRoutes(r chi.Router, mw *auth.Middleware) {
	r.Use(h.requestLogger)
	r.Use(mw.WithUser)

	// --- Public Routes ---
	r.Get("/", h.Home)
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/locations", h.ListLocations)
	r.Get("/api/locations/{location}", h.GetLocation)

	// --- Session Routes ---
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)

		r.Post("/api/auth/logout", h.Logout)
		r.Get("/api/auth/me", h.Me)
		r.Get("/api/reports", h.ListReports)

		r.With(mw.RequireNotBanned).Post("/api/reports", h.SubmitReport)
	})

	// --- Admin Routes ---
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin)

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/users", h.AdminListUsers)
			r.Post("/users/{userID}/ban", h.AdminToggleBan)
			r.Post("/locations", h.AdminCreateLocation)
			r.Put("/locations/{locationID}", h.AdminUpdateLocation)
			r.Delete("/locations/{locationID}", h.AdminDeleteLocation)
			r.Delete("/reports/{reportID}", h.AdminDeleteReport)
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
