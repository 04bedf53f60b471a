package database

import (
	"context"
	"fmt"
	"serwer-detekcji/internal/models"
)

// Entitlements to wyliczone limity zasobów użytkownika wyprowadzone
// z jego pakietu. Konto bez pakietu nie ma limitów, tak jak w modelu
// danych (-1).
type Entitlements struct {
	CameraLimit int
	FaceLimit   int
}

type QuotaExceededError struct {
	Resource string
	Limit    int
}

func (e *QuotaExceededError) Error() string {
	switch e.Resource {
	case "camera":
		return fmt.Sprintf("Camera limit reached. Your package allows %d cameras.", e.Limit)
	case "face":
		return fmt.Sprintf("Face limit reached. Your package allows %d faces.", e.Limit)
	}
	return fmt.Sprintf("%s limit reached (%d)", e.Resource, e.Limit)
}

// Klasy blokad advisory: osobna przestrzeń kluczy na każdy rodzaj zasobu,
// żeby tworzenie kamery nie blokowało rejestracji twarzy tego samego konta.
const (
	lockClassCameras int32 = 1
	lockClassFaces   int32 = 2
)

// LockUserResource bierze transakcyjną blokadę advisory dla pary
// (rodzaj zasobu, użytkownik). Dzięki temu count+insert w jednej
// transakcji nie ściga się z równoległym tworzeniem tego samego zasobu.
func (q *Queries) LockUserResource(ctx context.Context, class int32, userID int64) error {
	_, err := q.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashint8($2))`, class, userID)
	return err
}

func (q *Queries) GetEntitlements(ctx context.Context, userID int64) (Entitlements, error) {
	query := `
		SELECT COALESCE(p.camera_limit, -1), COALESCE(p.max_registered_faces, -1)
		FROM users u
		LEFT JOIN packages p ON u.package_id = p.id
		WHERE u.id = $1
	`
	ent := Entitlements{CameraLimit: models.UnlimitedQuota, FaceLimit: models.UnlimitedQuota}
	err := q.db.QueryRow(ctx, query, userID).Scan(&ent.CameraLimit, &ent.FaceLimit)
	return ent, err
}
