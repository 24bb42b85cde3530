package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/utils"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Crowd.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, "Failed to list users", err)
		return
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Users", views))
}

func (h *Handler) AdminToggleBan(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	banned, err := h.Crowd.ToggleBan(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Failed to toggle ban", err)
		return
	}

	h.Logger.LogAuth("BAN", fmt.Sprintf("user %s banned=%t", userID, banned))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ban flag updated", map[string]bool{"banned": banned}))
}

type locationRequest struct {
	Name     string `json:"name"`
	Busyness []int  `json:"busyness_hourly"`
}

func (h *Handler) AdminCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	location, err := h.Crowd.CreateLocation(r.Context(), req.Name, req.Busyness)
	if err != nil {
		h.writeError(w, "Failed to create location", err)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("location created: %s", location.Name))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Location created", location))
}

func (h *Handler) AdminUpdateLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	location, err := h.Crowd.UpdateLocation(r.Context(), locationID, req.Name, req.Busyness)
	if err != nil {
		h.writeError(w, "Failed to update location", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Location updated", location))
}

func (h *Handler) AdminDeleteLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	if err := h.Crowd.DeleteLocation(r.Context(), locationID); err != nil {
		h.writeError(w, "Failed to delete location", err)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("location deleted: %s", locationID))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Location deleted", nil))
}

func (h *Handler) AdminDeleteReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	if err := h.Crowd.DeleteReport(r.Context(), reportID); err != nil {
		h.writeError(w, "Failed to delete report", err)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("report deleted: %s", reportID))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Report deleted", nil))
}
