package database

import (
	"context"
	"serwer-detekcji/internal/auth"
	"serwer-detekcji/internal/models"
	"testing"

	"github.com/stretchr/testify/require"
)

// Funkcja pomocnicza: tworzy użytkownika z pakietem o podanej nazwie
// (pakiety są zasiane przez init.sql). packageName == "" oznacza brak pakietu.
func createTestUser(t *testing.T, email string, packageName string) *models.User {
	var packageID *int64
	if packageName != "" {
		pkg, err := testStore.GetPackageByName(context.Background(), packageName)
		require.NoError(t, err)
		require.NotNil(t, pkg)
		packageID = &pkg.ID
	}

	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: hashedPassword,
		PackageID:    packageID,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestCreateUser(t *testing.T) {
	phone := "+48123456789"
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        "create@example.com",
		FullName:     "Jan Kowalski",
		PhoneNumber:  &phone,
		PasswordHash: "hash",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotZero(t, user.ID)
	require.Equal(t, "create@example.com", user.Email)
	require.Equal(t, "Jan Kowalski", user.FullName)
	require.NotNil(t, user.PhoneNumber)
	require.Equal(t, phone, *user.PhoneNumber)
	require.Nil(t, user.PackageID)
	require.True(t, user.IsActive)
	require.NotZero(t, user.CreatedAt)

	// Duplikat adresu email musi zwrócić ErrEmailTaken, nie surowy błąd pgx
	_, err = testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        "create@example.com",
		FullName:     "Inny Jan",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByEmail(t *testing.T) {
	created := createTestUser(t, "lookup@example.com", "Standard")

	foundUser, err := testStore.GetUserByEmail(context.Background(), "lookup@example.com")
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, created.ID, foundUser.ID)
	require.Equal(t, created.Email, foundUser.Email)
	require.NotEmpty(t, foundUser.PasswordHash)
	require.NotNil(t, foundUser.PackageID)

	nonExistentUser, err := testStore.GetUserByEmail(context.Background(), "nonexistent@example.com")
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}

func TestGetUserByID(t *testing.T) {
	created := createTestUser(t, "byid@example.com", "")

	foundUser, err := testStore.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, created.Email, foundUser.Email)

	foundUser, err = testStore.GetUserByID(context.Background(), 999999)
	require.NoError(t, err)
	require.Nil(t, foundUser)
}

func TestDeleteUserCascades(t *testing.T) {
	user := createTestUser(t, "cascade@example.com", "Enterprise")

	camera, err := testStore.CreateCamera(context.Background(), CreateCameraParams{
		UserID:     user.ID,
		CameraName: "Kamera do usunięcia",
		CameraType: models.CameraTypeWebcam,
	})
	require.NoError(t, err)

	success, err := testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, success)

	// Kaskada musi sprzątnąć zasoby użytkownika
	foundCamera, err := testStore.GetCameraByID(context.Background(), camera.ID, user.ID)
	require.NoError(t, err)
	require.Nil(t, foundCamera)

	success, err = testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, success)
}
