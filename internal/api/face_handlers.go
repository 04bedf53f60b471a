package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"serwer-detekcji/internal/database"
	"serwer-detekcji/internal/storage"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// @Summary      List registered faces
// @Description  Returns all faces registered by the authenticated user.
// @Tags         faces
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.RegisteredFace
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /faces [get]
func (s *Server) ListFacesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	faces, err := s.store.ListFaces(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list faces", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(faces)
}

// @Summary      Register a face
// @Description  Uploads a face image and creates a face record. The package face quota is enforced atomically with the insert; when the quota is exceeded no row is kept and the uploaded blob is removed. Face encoding is computed asynchronously by the recognition workers.
// @Tags         faces
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        face_name  formData  string  true  "Display name of the person"
// @Param        file       formData  file    true  "Face image"
// @Success      201        {object}  models.RegisteredFace
// @Failure      400        {string}  string "Validation error or face limit reached"
// @Failure      401        {string}  string "Unauthorized"
// @Failure      500        {string}  string "Internal Server Error"
// @Router       /faces [post]
func (s *Server) UploadFaceHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 32<<20)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	faceName := strings.TrimSpace(r.FormValue("face_name"))
	if faceName == "" {
		http.Error(w, "Face name cannot be empty", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Losowy identyfikator bloba zamiast nazwy pliku od klienta: dwa
	// równoległe uploady nigdy nie walczą o tę samą ścieżkę.
	generateID, err := nanoid.Standard(21)
	if err != nil {
		log.Printf("CRITICAL: Failed to initialize nanoid generator: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	imageID := generateID()

	if err := s.storage.Save(storage.CategoryFaces, imageID, file); err != nil {
		http.Error(w, "Failed to save face image", http.StatusInternalServerError)
		return
	}

	params := database.CreateFaceParams{
		UserID:      claims.UserID,
		FaceName:    faceName,
		FaceImageID: &imageID,
	}

	face, err := s.store.CreateFaceEnforcingQuota(r.Context(), params)
	if err != nil {
		// Rekord nie powstał, więc blob też nie może zostać.
		if delErr := s.storage.Delete(storage.CategoryFaces, imageID); delErr != nil {
			log.Printf("WARN: Failed to clean up face image %s: %v", imageID, delErr)
		}

		var quotaErr *database.QuotaExceededError
		if errors.As(err, &quotaErr) {
			http.Error(w, quotaErr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: Failed to register face for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to register face", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(face)
}

type FaceUpdateRequest struct {
	FaceName *string `json:"face_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// @Summary      Update a registered face
// @Description  Renames a face or toggles its active flag. Omitted fields keep their values.
// @Tags         faces
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        faceId       path      int                true  "Face ID"
// @Param        faceRequest  body      FaceUpdateRequest  true  "Fields to update"
// @Success      200          {object}  models.RegisteredFace
// @Failure      400          {string}  string "Validation error"
// @Failure      401          {string}  string "Unauthorized"
// @Failure      404          {string}  string "Face not found"
// @Failure      500          {string}  string "Internal Server Error"
// @Router       /faces/{faceId} [put]
func (s *Server) UpdateFaceHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	faceID, err := parseResourceID(r, "faceId")
	if err != nil {
		http.Error(w, "Invalid face ID", http.StatusBadRequest)
		return
	}

	var req FaceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	face, err := s.store.GetFaceByID(r.Context(), faceID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve face", http.StatusInternalServerError)
		return
	}
	if face == nil {
		http.Error(w, "Face not found", http.StatusNotFound)
		return
	}

	if req.FaceName != nil {
		if strings.TrimSpace(*req.FaceName) == "" {
			http.Error(w, "Face name cannot be empty", http.StatusBadRequest)
			return
		}
		face.FaceName = *req.FaceName
	}
	if req.IsActive != nil {
		face.IsActive = *req.IsActive
	}

	updated, err := s.store.UpdateFace(r.Context(), face)
	if err != nil {
		http.Error(w, "Failed to update face", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Face not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// @Summary      Delete a registered face
// @Description  Removes an owned face record and its stored image. Detection logs referencing the face keep their rows with the reference cleared.
// @Tags         faces
// @Security     BearerAuth
// @Param        faceId  path      int  true  "Face ID"
// @Success      204     {null}    nil  "No Content"
// @Failure      401     {string}  string "Unauthorized"
// @Failure      404     {string}  string "Face not found"
// @Failure      500     {string}  string "Internal Server Error"
// @Router       /faces/{faceId} [delete]
func (s *Server) DeleteFaceHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	faceID, err := parseResourceID(r, "faceId")
	if err != nil {
		http.Error(w, "Invalid face ID", http.StatusBadRequest)
		return
	}

	imageID, success, err := s.store.DeleteFace(r.Context(), faceID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete face", http.StatusInternalServerError)
		return
	}
	if !success {
		http.Error(w, "Face not found", http.StatusNotFound)
		return
	}

	if imageID != nil {
		if err := s.storage.Delete(storage.CategoryFaces, *imageID); err != nil {
			log.Printf("WARN: Failed to delete face image %s from storage: %v", *imageID, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download a face image
// @Description  Streams the stored image of an owned face.
// @Tags         faces
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        faceId  path      int  true  "Face ID"
// @Success      200     {file}    file
// @Failure      401     {string}  string "Unauthorized"
// @Failure      404     {string}  string "Face not found"
// @Failure      500     {string}  string "Internal Server Error"
// @Router       /faces/{faceId}/image [get]
func (s *Server) DownloadFaceImageHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	faceID, err := parseResourceID(r, "faceId")
	if err != nil {
		http.Error(w, "Invalid face ID", http.StatusBadRequest)
		return
	}

	face, err := s.store.GetFaceByID(r.Context(), faceID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve face", http.StatusInternalServerError)
		return
	}
	if face == nil || face.FaceImageID == nil {
		http.Error(w, "Face not found", http.StatusNotFound)
		return
	}

	fileStream, err := s.storage.Get(storage.CategoryFaces, *face.FaceImageID)
	if err != nil {
		http.Error(w, "Face image not found on storage", http.StatusInternalServerError)
		return
	}
	defer fileStream.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, fileStream)
}
