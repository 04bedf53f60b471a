package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type DashboardStatsResponse struct {
	TotalAlertsToday     string `json:"total_alerts_today" example:"07"`
	TotalRegisteredFaces string `json:"total_registered_faces" example:"03"`
}

// @Summary      Dashboard statistics
// @Description  Returns today's detection count and the number of active registered faces, zero-padded for the dashboard widgets.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DashboardStatsResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /dashboard/stats [get]
func (s *Server) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	alertsToday, err := s.store.CountDetectionsToday(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}

	activeFaces, err := s.store.CountActiveFaces(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to load dashboard stats", http.StatusInternalServerError)
		return
	}

	resp := DashboardStatsResponse{
		TotalAlertsToday:     fmt.Sprintf("%02d", alertsToday),
		TotalRegisteredFaces: fmt.Sprintf("%02d", activeFaces),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
