package api

import (
	"encoding/json"
	"net/http"

	_ "serwer-detekcji/internal/models"
)

// @Summary      List subscription packages
// @Description  Returns all available subscription tiers with their prices and resource limits. -1 means unlimited.
// @Tags         packages
// @Produce      json
// @Success      200  {array}   models.Package
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /packages [get]
func (s *Server) ListPackagesHandler(w http.ResponseWriter, r *http.Request) {
	packages, err := s.store.ListPackages(r.Context())
	if err != nil {
		http.Error(w, "Failed to list packages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(packages)
}
