package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"serwer-detekcji/internal/auth"
	"serwer-detekcji/internal/database"
	"serwer-detekcji/internal/models"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CameraCreateRequest struct {
	CameraName  string  `json:"camera_name" example:"Wejście główne"`
	CameraBrand *string `json:"camera_brand,omitempty" example:"Hikvision"`
	CameraType  string  `json:"camera_type" example:"ip_camera" enums:"ip_camera,webcam"`
	IPAddress   *string `json:"ip_address,omitempty" example:"192.168.1.64"`
	Port        *int    `json:"port,omitempty" example:"554"`
	Username    *string `json:"username,omitempty" example:"admin"`
	Password    *string `json:"password,omitempty"`
}

// CameraUpdateRequest niesie częściową aktualizację: pole nil oznacza
// "zostaw bez zmian". Scalony rekord przechodzi tę samą walidację co
// przy tworzeniu.
type CameraUpdateRequest struct {
	CameraName  *string `json:"camera_name,omitempty"`
	CameraBrand *string `json:"camera_brand,omitempty"`
	CameraType  *string `json:"camera_type,omitempty"`
	IPAddress   *string `json:"ip_address,omitempty"`
	Port        *int    `json:"port,omitempty"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func parseResourceID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

// @Summary      List cameras
// @Description  Returns all cameras registered by the authenticated user.
// @Tags         cameras
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Camera
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /cameras [get]
func (s *Server) ListCamerasHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	cameras, err := s.store.ListCameras(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list cameras", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cameras)
}

// @Summary      Get a camera
// @Description  Returns a single camera owned by the authenticated user.
// @Tags         cameras
// @Produce      json
// @Security     BearerAuth
// @Param        cameraId  path      int  true  "Camera ID"
// @Success      200       {object}  models.Camera
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Camera not found"
// @Failure      500       {string}  string "Internal Server Error"
// @Router       /cameras/{cameraId} [get]
func (s *Server) GetCameraHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	cameraID, err := parseResourceID(r, "cameraId")
	if err != nil {
		http.Error(w, "Invalid camera ID", http.StatusBadRequest)
		return
	}

	camera, err := s.store.GetCameraByID(r.Context(), cameraID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve camera", http.StatusInternalServerError)
		return
	}
	if camera == nil {
		http.Error(w, "Camera not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(camera)
}

// @Summary      Register a camera
// @Description  Creates a camera for the authenticated user. The package camera quota is enforced atomically with the insert; new cameras start as "inactive".
// @Tags         cameras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cameraRequest  body      CameraCreateRequest  true  "Camera data"
// @Success      201            {object}  models.Camera
// @Failure      400            {string}  string "Validation error or camera limit reached"
// @Failure      401            {string}  string "Unauthorized"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /cameras [post]
func (s *Server) CreateCameraHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CameraCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.CameraName) == "" {
		http.Error(w, "Camera name cannot be empty", http.StatusBadRequest)
		return
	}

	candidate := models.Camera{
		UserID:      claims.UserID,
		CameraName:  req.CameraName,
		CameraBrand: req.CameraBrand,
		CameraType:  req.CameraType,
		IPAddress:   req.IPAddress,
		Port:        req.Port,
		Username:    req.Username,
		Status:      models.CameraStatusInactive,
	}
	if err := models.ValidateCamera(&candidate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		passwordHash = &hashed
	}

	params := database.CreateCameraParams{
		UserID:       claims.UserID,
		CameraName:   req.CameraName,
		CameraBrand:  req.CameraBrand,
		CameraType:   req.CameraType,
		IPAddress:    req.IPAddress,
		Port:         req.Port,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	camera, err := s.store.CreateCameraEnforcingQuota(r.Context(), params)
	if err != nil {
		var quotaErr *database.QuotaExceededError
		if errors.As(err, &quotaErr) {
			http.Error(w, quotaErr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to create camera for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to create camera", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(camera)
}

// @Summary      Update a camera
// @Description  Applies a partial update to an owned camera. Omitted fields keep their values; a provided password is re-hashed before storing.
// @Tags         cameras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cameraId       path      int                  true  "Camera ID"
// @Param        cameraRequest  body      CameraUpdateRequest  true  "Fields to update"
// @Success      200            {object}  models.Camera
// @Failure      400            {string}  string "Validation error"
// @Failure      401            {string}  string "Unauthorized"
// @Failure      404            {string}  string "Camera not found"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /cameras/{cameraId} [put]
func (s *Server) UpdateCameraHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	cameraID, err := parseResourceID(r, "cameraId")
	if err != nil {
		http.Error(w, "Invalid camera ID", http.StatusBadRequest)
		return
	}

	var req CameraUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	camera, err := s.store.GetCameraByID(r.Context(), cameraID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve camera", http.StatusInternalServerError)
		return
	}
	if camera == nil {
		http.Error(w, "Camera not found", http.StatusNotFound)
		return
	}

	if req.CameraName != nil {
		if strings.TrimSpace(*req.CameraName) == "" {
			http.Error(w, "Camera name cannot be empty", http.StatusBadRequest)
			return
		}
		camera.CameraName = *req.CameraName
	}
	if req.CameraBrand != nil {
		camera.CameraBrand = req.CameraBrand
	}
	if req.CameraType != nil {
		camera.CameraType = *req.CameraType
	}
	if req.IPAddress != nil {
		camera.IPAddress = req.IPAddress
	}
	if req.Port != nil {
		camera.Port = req.Port
	}
	if req.Username != nil {
		camera.Username = req.Username
	}
	if req.Status != nil {
		camera.Status = *req.Status
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		camera.PasswordHash = &hashed
	}

	if err := models.ValidateCamera(camera); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.store.UpdateCamera(r.Context(), camera)
	if err != nil {
		http.Error(w, "Failed to update camera", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Camera not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Delete a camera
// @Description  Removes an owned camera. Its detection logs are cascade-deleted with it.
// @Tags         cameras
// @Security     BearerAuth
// @Param        cameraId  path      int  true  "Camera ID"
// @Success      204       {null}    nil  "No Content"
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Camera not found"
// @Failure      500       {string}  string "Internal Server Error"
// @Router       /cameras/{cameraId} [delete]
func (s *Server) DeleteCameraHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	cameraID, err := parseResourceID(r, "cameraId")
	if err != nil {
		http.Error(w, "Invalid camera ID", http.StatusBadRequest)
		return
	}

	success, err := s.store.DeleteCamera(r.Context(), cameraID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete camera", http.StatusInternalServerError)
		return
	}
	if !success {
		http.Error(w, "Camera not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Test camera connection
// @Description  Checks that the camera belongs to the caller and refreshes its last_seen timestamp. Actual protocol-level probing is handled by the stream workers, not this API.
// @Tags         cameras
// @Produce      json
// @Security     BearerAuth
// @Param        cameraId  path      int  true  "Camera ID"
// @Success      200       {object}  map[string]string
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Camera not found"
// @Failure      500       {string}  string "Internal Server Error"
// @Router       /cameras/{cameraId}/test [post]
func (s *Server) TestCameraHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	cameraID, err := parseResourceID(r, "cameraId")
	if err != nil {
		http.Error(w, "Invalid camera ID", http.StatusBadRequest)
		return
	}

	camera, err := s.store.GetCameraByID(r.Context(), cameraID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve camera", http.StatusInternalServerError)
		return
	}
	if camera == nil {
		http.Error(w, "Camera not found", http.StatusNotFound)
		return
	}

	if err := s.store.TouchCameraLastSeen(r.Context(), cameraID, claims.UserID); err != nil {
		log.Printf("WARN: Failed to update last_seen for camera %d: %v", cameraID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "success",
		"message": "Camera connection test successful",
	})
}
