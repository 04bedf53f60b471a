package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateDetectionLog(t *testing.T) {
	user := createTestUser(t, "detection-create@example.com", "Standard")
	camera := createTestCamera(t, user.ID, "Kamera detekcji")
	face := createTestFace(t, user.ID, "Znana twarz", "img_det_create")

	confidence := 0.9312
	detection, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:              user.ID,
		CameraID:            camera.ID,
		RegisteredFaceID:    &face.ID,
		DetectionConfidence: &confidence,
	})

	require.NoError(t, err)
	require.NotNil(t, detection)
	require.NotZero(t, detection.ID)
	require.Equal(t, camera.ID, detection.CameraID)
	require.NotNil(t, detection.RegisteredFaceID)
	require.Equal(t, face.ID, *detection.RegisteredFaceID)
	require.NotNil(t, detection.DetectionConfidence)
	require.InDelta(t, confidence, *detection.DetectionConfidence, 1e-9)
	require.NotZero(t, detection.DetectedAt)
}

func TestCreateDetectionLogOwnership(t *testing.T) {
	owner := createTestUser(t, "detection-owner@example.com", "Standard")
	intruder := createTestUser(t, "detection-intruder@example.com", "Standard")
	camera := createTestCamera(t, owner.ID, "Kamera właściciela")
	face := createTestFace(t, owner.ID, "Twarz właściciela", "img_det_own")

	// Cudza kamera wygląda jak nieistniejąca
	_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:   intruder.ID,
		CameraID: camera.ID,
	})
	require.ErrorIs(t, err, ErrCameraNotFound)

	// Własna kamera, ale cudza twarz
	intruderCamera := createTestCamera(t, intruder.ID, "Kamera intruza")
	_, err = testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:           intruder.ID,
		CameraID:         intruderCamera.ID,
		RegisteredFaceID: &face.ID,
	})
	require.ErrorIs(t, err, ErrFaceNotFound)
}

func TestCreateDetectionLogCameraDeletedMidFlight(t *testing.T) {
	// Kamera znika w trakcie napływu detekcji: każdy wpis ma się udać
	// albo skończyć jako ErrCameraNotFound, nigdy naruszeniem klucza obcego
	user := createTestUser(t, "detection-midflight@example.com", "Enterprise")
	camera := createTestCamera(t, user.ID, "Kamera znikająca")

	const attempts = 20
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
				UserID:   user.ID,
				CameraID: camera.ID,
			})
			errs <- err
		}()
	}

	success, err := testStore.DeleteCamera(context.Background(), camera.ID, user.ID)
	require.NoError(t, err)
	require.True(t, success)

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrCameraNotFound)
		}
	}
}

func TestListDetectionsOrderAndPaging(t *testing.T) {
	user := createTestUser(t, "detection-list@example.com", "Standard")
	camera := createTestCamera(t, user.ID, "Kamera listy")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
			UserID:     user.ID,
			CameraID:   camera.ID,
			DetectedAt: &at,
		})
		require.NoError(t, err)
	}

	detections, err := testStore.ListDetections(context.Background(), user.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, detections, 5)

	// Najnowsze wpisy pierwsze
	for i := 1; i < len(detections); i++ {
		require.True(t, !detections[i-1].DetectedAt.Before(detections[i].DetectedAt))
	}

	// Każdy wpis niesie podsumowanie kamery
	require.NotNil(t, detections[0].Camera)
	require.Equal(t, "Kamera listy", detections[0].Camera.CameraName)

	page, err := testStore.ListDetections(context.Background(), user.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, detections[0].ID, page[0].ID)

	page, err = testStore.ListDetections(context.Background(), user.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, detections[4].ID, page[0].ID)
}

func TestDetectionFaceSetNullOnDelete(t *testing.T) {
	user := createTestUser(t, "detection-setnull@example.com", "Standard")
	camera := createTestCamera(t, user.ID, "Kamera setnull")
	face := createTestFace(t, user.ID, "Twarz do usunięcia", "img_det_setnull")

	_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:           user.ID,
		CameraID:         camera.ID,
		RegisteredFaceID: &face.ID,
	})
	require.NoError(t, err)

	_, success, err := testStore.DeleteFace(context.Background(), face.ID, user.ID)
	require.NoError(t, err)
	require.True(t, success)

	// Historia detekcji zostaje, tylko odwołanie do twarzy jest zerowane
	detections, err := testStore.ListDetections(context.Background(), user.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	require.Nil(t, detections[0].RegisteredFaceID)
	require.Nil(t, detections[0].RegisteredFace)
}

func TestDetectionCascadeOnCameraDelete(t *testing.T) {
	user := createTestUser(t, "detection-cascade@example.com", "Standard")
	camera := createTestCamera(t, user.ID, "Kamera kaskady")

	_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:   user.ID,
		CameraID: camera.ID,
	})
	require.NoError(t, err)

	success, err := testStore.DeleteCamera(context.Background(), camera.ID, user.ID)
	require.NoError(t, err)
	require.True(t, success)

	detections, err := testStore.ListDetections(context.Background(), user.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, detections, 0)
}

func TestCountDetectionsToday(t *testing.T) {
	user := createTestUser(t, "detection-today@example.com", "Standard")
	camera := createTestCamera(t, user.ID, "Kamera dzienna")

	yesterday := time.Now().Add(-25 * time.Hour)
	_, err := testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:     user.ID,
		CameraID:   camera.ID,
		DetectedAt: &yesterday,
	})
	require.NoError(t, err)

	_, err = testStore.CreateDetectionLog(context.Background(), CreateDetectionParams{
		UserID:   user.ID,
		CameraID: camera.ID,
	})
	require.NoError(t, err)

	count, err := testStore.CountDetectionsToday(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
