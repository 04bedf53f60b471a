package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"serwer-detekcji/internal/auth"
	"serwer-detekcji/internal/database"
	"serwer-detekcji/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func createCameraForDetections(t *testing.T, claims *auth.AppClaims, token string, name string) models.Camera {
	payload := CameraCreateRequest{CameraName: name, CameraType: models.CameraTypeWebcam}
	body, _ := json.Marshal(payload)
	req := authedRequest("POST", "/cameras", bytes.NewReader(body), claims, token)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.CreateCameraHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var camera models.Camera
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &camera))
	return camera
}

func TestAPI_CreateDetection(t *testing.T) {
	claims, token := createAPIUser(t, "detection_api@example.com", "Standard")
	camera := createCameraForDetections(t, claims, token, "Kamera detekcji")

	confidence := 0.8754
	payload := DetectionCreateRequest{CameraID: camera.ID, DetectionConfidence: &confidence}
	body, _ := json.Marshal(payload)
	req := authedRequest("POST", "/detections", bytes.NewReader(body), claims, token)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.CreateDetectionHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var detection models.DetectionLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detection))
	require.Equal(t, camera.ID, detection.CameraID)
	require.NotNil(t, detection.DetectionConfidence)
	require.NotZero(t, detection.DetectedAt)
}

func TestAPI_CreateDetection_ForeignCamera(t *testing.T) {
	ownerClaims, ownerToken := createAPIUser(t, "detection_owner@example.com", "Standard")
	intruderClaims, intruderToken := createAPIUser(t, "detection_intruder@example.com", "Standard")
	camera := createCameraForDetections(t, ownerClaims, ownerToken, "Kamera właściciela")

	payload := DetectionCreateRequest{CameraID: camera.ID}
	body, _ := json.Marshal(payload)
	req := authedRequest("POST", "/detections", bytes.NewReader(body), intruderClaims, intruderToken)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.CreateDetectionHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Camera not found")
}

func TestAPI_ListDetections(t *testing.T) {
	claims, token := createAPIUser(t, "detection_list_api@example.com", "Standard")
	camera := createCameraForDetections(t, claims, token, "Kamera listy")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		_, err := testServer.store.CreateDetectionLog(context.Background(), database.CreateDetectionParams{
			UserID:     claims.UserID,
			CameraID:   camera.ID,
			DetectedAt: &at,
		})
		require.NoError(t, err)
	}

	req := authedRequest("GET", "/detections", nil, claims, token)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.ListDetectionsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var detections []database.DetectionWithContext
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detections))
	require.Len(t, detections, 3)

	// Najnowsze najpierw, z podsumowaniem kamery bez sekretów
	for i := 1; i < len(detections); i++ {
		require.True(t, !detections[i-1].DetectedAt.Before(detections[i].DetectedAt))
	}
	require.NotNil(t, detections[0].Camera)
	require.Equal(t, "Kamera listy", detections[0].Camera.CameraName)
	require.NotContains(t, rr.Body.String(), "password_hash")

	// Paginacja przez query stringi
	req = authedRequest("GET", "/detections?limit=2&offset=1", nil, claims, token)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.ListDetectionsHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var page []database.DetectionWithContext
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Len(t, page, 2)
	require.Equal(t, detections[1].ID, page[0].ID)
}

func TestAPI_DashboardStats(t *testing.T) {
	claims, token := createAPIUser(t, "dashboard_api@example.com", "Standard")
	camera := createCameraForDetections(t, claims, token, "Kamera statystyk")

	for i := 0; i < 2; i++ {
		_, err := testServer.store.CreateDetectionLog(context.Background(), database.CreateDetectionParams{
			UserID:   claims.UserID,
			CameraID: camera.ID,
		})
		require.NoError(t, err)
	}

	req := uploadFaceRequest(t, claims, token, "Twarz statystyk", []byte("bytes"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.UploadFaceHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = authedRequest("GET", "/dashboard/stats", nil, claims, token)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.DashboardStatsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var stats DashboardStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	// Liczniki są zero-paddowane do dwóch cyfr
	require.Equal(t, "02", stats.TotalAlertsToday)
	require.Equal(t, "01", stats.TotalRegisteredFaces)
}
