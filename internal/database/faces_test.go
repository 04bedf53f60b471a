package database

import (
	"context"
	"fmt"
	"serwer-detekcji/internal/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestFace(t *testing.T, userID int64, name string, imageID string) *models.RegisteredFace {
	face, err := testStore.CreateFace(context.Background(), CreateFaceParams{
		UserID:      userID,
		FaceName:    name,
		FaceImageID: &imageID,
	})
	require.NoError(t, err)
	require.NotNil(t, face)
	return face
}

func TestCreateFace(t *testing.T) {
	user := createTestUser(t, "face-create@example.com", "Standard")

	face := createTestFace(t, user.ID, "Jan Kowalski", "img_face_create")
	require.NotZero(t, face.ID)
	require.Equal(t, user.ID, face.UserID)
	require.Equal(t, "Jan Kowalski", face.FaceName)
	require.NotNil(t, face.FaceImageID)
	require.Equal(t, "img_face_create", *face.FaceImageID)
	require.True(t, face.IsActive)
}

func TestListFaces(t *testing.T) {
	user := createTestUser(t, "face-list@example.com", "Standard")
	createTestFace(t, user.ID, "Twarz A", "img_list_a")
	createTestFace(t, user.ID, "Twarz B", "img_list_b")

	faces, err := testStore.ListFaces(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, faces, 2)

	emptyUser := createTestUser(t, "face-list-empty@example.com", "Standard")
	faces, err = testStore.ListFaces(context.Background(), emptyUser.ID)
	require.NoError(t, err)
	require.NotNil(t, faces)
	require.Len(t, faces, 0)
}

func TestCreateFaceEnforcingQuota(t *testing.T) {
	// Pakiet Standard pozwala na 10 twarzy
	user := createTestUser(t, "face-quota@example.com", "Standard")

	for i := 0; i < 10; i++ {
		imageID := fmt.Sprintf("img_quota_%d", i)
		_, err := testStore.CreateFaceEnforcingQuota(context.Background(), CreateFaceParams{
			UserID:      user.ID,
			FaceName:    fmt.Sprintf("Twarz %d", i+1),
			FaceImageID: &imageID,
		})
		require.NoError(t, err)
	}

	imageID := "img_quota_over"
	_, err := testStore.CreateFaceEnforcingQuota(context.Background(), CreateFaceParams{
		UserID:      user.ID,
		FaceName:    "Twarz ponad limit",
		FaceImageID: &imageID,
	})
	require.Error(t, err)

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	require.Equal(t, 10, quotaErr.Limit)
	require.Equal(t, "Face limit reached. Your package allows 10 faces.", quotaErr.Error())

	count, err := testStore.CountFaces(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 10, count)
}

func TestCreateFaceEnforcingQuotaConcurrent(t *testing.T) {
	// 15 równoległych prób przy limicie 10: do bazy ma trafić dokładnie 10
	user := createTestUser(t, "face-quota-race@example.com", "Standard")

	const attempts = 15
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			imageID := fmt.Sprintf("img_race_%d", i)
			_, err := testStore.CreateFaceEnforcingQuota(context.Background(), CreateFaceParams{
				UserID:      user.ID,
				FaceName:    fmt.Sprintf("Twarz równoległa %d", i+1),
				FaceImageID: &imageID,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err == nil {
			continue
		}
		var quotaErr *QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		require.Equal(t, 10, quotaErr.Limit)
		rejected++
	}
	require.Equal(t, attempts-10, rejected)

	count, err := testStore.CountFaces(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 10, count)
}

func TestUpdateFace(t *testing.T) {
	user := createTestUser(t, "face-update@example.com", "Standard")
	face := createTestFace(t, user.ID, "Stara twarz", "img_update")

	face.FaceName = "Nowa twarz"
	face.IsActive = false

	updated, err := testStore.UpdateFace(context.Background(), face)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "Nowa twarz", updated.FaceName)
	require.False(t, updated.IsActive)
}

func TestCountActiveFaces(t *testing.T) {
	user := createTestUser(t, "face-active@example.com", "Standard")
	createTestFace(t, user.ID, "Aktywna", "img_active_1")
	inactive := createTestFace(t, user.ID, "Nieaktywna", "img_active_2")

	inactive.IsActive = false
	_, err := testStore.UpdateFace(context.Background(), inactive)
	require.NoError(t, err)

	active, err := testStore.CountActiveFaces(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, active)

	// Licznik całkowity obejmuje też nieaktywne wpisy
	total, err := testStore.CountFaces(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestDeleteFace(t *testing.T) {
	user := createTestUser(t, "face-delete@example.com", "Standard")
	otherUser := createTestUser(t, "face-delete-other@example.com", "Standard")
	face := createTestFace(t, user.ID, "Do usunięcia", "img_delete")

	imageID, success, err := testStore.DeleteFace(context.Background(), face.ID, otherUser.ID)
	require.NoError(t, err)
	require.False(t, success)
	require.Nil(t, imageID)

	imageID, success, err = testStore.DeleteFace(context.Background(), face.ID, user.ID)
	require.NoError(t, err)
	require.True(t, success)
	require.NotNil(t, imageID)
	require.Equal(t, "img_delete", *imageID)

	found, err := testStore.GetFaceByID(context.Background(), face.ID, user.ID)
	require.NoError(t, err)
	require.Nil(t, found)
}
