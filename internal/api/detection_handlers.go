package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"serwer-detekcji/internal/database"
	"time"
)

// @Summary      List detection logs
// @Description  Returns the user's detection history ordered by detection time, newest first. Each entry carries a minimal camera and face summary. The limit is capped server-side at 100.
// @Tags         detections
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 100)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   database.DetectionWithContext
// @Failure      401     {string}  string "Unauthorized"
// @Failure      500     {string}  string "Internal Server Error"
// @Router       /detections [get]
func (s *Server) ListDetectionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r)

	detections, err := s.store.ListDetections(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to list detections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detections)
}

type DetectionCreateRequest struct {
	CameraID            int64      `json:"camera_id" example:"1"`
	RegisteredFaceID    *int64     `json:"registered_face_id,omitempty" example:"2"`
	DetectionConfidence *float64   `json:"detection_confidence,omitempty" example:"0.9312"`
	DetectedAt          *time.Time `json:"detected_at,omitempty"`
}

// @Summary      Record a detection
// @Description  Stores a detection log entry reported by the caller's recognition pipeline and pushes a live alert to their open dashboard connections. The camera (and face, when given) must belong to the caller.
// @Tags         detections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        detectionRequest  body      DetectionCreateRequest  true  "Detection data"
// @Success      201               {object}  models.DetectionLog
// @Failure      400               {string}  string "Invalid request body"
// @Failure      401               {string}  string "Unauthorized"
// @Failure      404               {string}  string "Camera or face not found"
// @Failure      500               {string}  string "Internal Server Error"
// @Router       /detections [post]
func (s *Server) CreateDetectionHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req DetectionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := database.CreateDetectionParams{
		UserID:              claims.UserID,
		CameraID:            req.CameraID,
		RegisteredFaceID:    req.RegisteredFaceID,
		DetectionConfidence: req.DetectionConfidence,
		DetectedAt:          req.DetectedAt,
	}

	detection, err := s.store.CreateDetectionLog(r.Context(), params)
	if err != nil {
		if errors.Is(err, database.ErrCameraNotFound) {
			http.Error(w, "Camera not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, database.ErrFaceNotFound) {
			http.Error(w, "Face not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to record detection for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to record detection", http.StatusInternalServerError)
		return
	}

	s.wsHub.PublishAlert(claims.UserID, "detection_recorded", detection)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(detection)
}
