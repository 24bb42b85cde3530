package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/j10czar/UF-CrowdView/internal/auth"
	"github.com/j10czar/UF-CrowdView/internal/crowd"
	"github.com/j10czar/UF-CrowdView/internal/logger"
	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/store"
	"github.com/j10czar/UF-CrowdView/internal/utils"
)

type Handler struct {
	Crowd      *crowd.Service
	Auth       *auth.Service
	Logger     *logger.Logger
	CookieName string
	// CookieMaxAge mirrors the session TTL so browser and Redis expire
	// together.
	CookieMaxAge int
}

func NewHandler(crowdService *crowd.Service, authService *auth.Service, log *logger.Logger, cookieName string, cookieMaxAge int) *Handler {
	return &Handler{
		Crowd:        crowdService,
		Auth:         authService,
		Logger:       log,
		CookieName:   cookieName,
		CookieMaxAge: cookieMaxAge,
	}
}

// writeError maps service and store errors onto the HTTP status table.
func (h *Handler) writeError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, crowd.ErrInvalidInput), errors.Is(err, auth.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrBanned):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", message, err))
	}
	utils.WriteJSON(w, status, utils.ErrorResponse(message, err.Error()))
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Welcome to UF-CrowdView API!", nil))
}

// ---------------- AUTH ----------------

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Signup failed", err)
		return
	}

	h.Logger.LogAuth("SIGNUP", fmt.Sprintf("new user %s", user.Username))
	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Signup successful", user.View()))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login failed", err)
		return
	}

	h.Logger.LogAuth("LOGIN", fmt.Sprintf("user %s", user.Username))
	h.setSessionCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Login successful", user.View()))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.CookieName); err == nil {
		if err := h.Auth.Logout(r.Context(), cookie.Value); err != nil {
			h.writeError(w, "Logout failed", err)
			return
		}
	}
	h.clearSessionCookie(w)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged out", nil))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Current user", user.View()))
}

// ---------------- LOCATIONS ----------------

type locationSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Busyness []int  `json:"busyness_hourly"`
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Crowd.ListLocations(r.Context())
	if err != nil {
		h.writeError(w, "Failed to list locations", err)
		return
	}

	summaries := make([]locationSummary, 0, len(locations))
	for i := range locations {
		curve, err := locations[i].Curve()
		if err != nil {
			h.writeError(w, "Failed to list locations", err)
			return
		}
		summaries = append(summaries, locationSummary{
			ID:       locations[i].ID,
			Name:     locations[i].Name,
			Busyness: curve,
		})
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Locations", summaries))
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	idOrName := chi.URLParam(r, "location")
	detail, err := h.Crowd.GetLocation(r.Context(), idOrName)
	if err != nil {
		h.writeError(w, "Location not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Location", detail))
}

// ---------------- REPORTS ----------------

type submitReportRequest struct {
	LocationID string `json:"location_id"`
	Score      int    `json:"score"`
	Comment    string `json:"comment"`
	PostedAt   string `json:"posted_at"`
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user := auth.UserFromContext(r.Context())
	report, err := h.Crowd.SubmitReport(r.Context(), user, req.LocationID, req.Score, req.Comment, req.PostedAt)
	if err != nil {
		h.writeError(w, "Failed to submit report", err)
		return
	}

	h.Logger.Info("REPORT", fmt.Sprintf("user %s reported %d at location %s", user.Username, report.Score, report.LocationID))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Report submitted", report))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Crowd.ListReports(r.Context())
	if err != nil {
		h.writeError(w, "Failed to list reports", err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Reports", reports))
}
