package database

import (
	"context"
	"errors"
	"serwer-detekcji/internal/models"

	"github.com/jackc/pgx/v5"
)

const faceColumns = `
	id,
	user_id,
	face_name,
	face_image_id,
	is_active,
	created_at,
	updated_at
`

func scanFace(row pgx.Row) (*models.RegisteredFace, error) {
	var face models.RegisteredFace
	err := row.Scan(
		&face.ID,
		&face.UserID,
		&face.FaceName,
		&face.FaceImageID,
		&face.IsActive,
		&face.CreatedAt,
		&face.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &face, nil
}

type CreateFaceParams struct {
	UserID      int64
	FaceName    string
	FaceImageID *string
}

func (q *Queries) CreateFace(ctx context.Context, arg CreateFaceParams) (*models.RegisteredFace, error) {
	query := `
		INSERT INTO registered_faces (user_id, face_name, face_image_id)
		VALUES ($1, $2, $3)
		RETURNING ` + faceColumns

	row := q.db.QueryRow(ctx, query, arg.UserID, arg.FaceName, arg.FaceImageID)
	return scanFace(row)
}

func (q *Queries) ListFaces(ctx context.Context, userID int64) ([]models.RegisteredFace, error) {
	query := `SELECT ` + faceColumns + ` FROM registered_faces WHERE user_id = $1 ORDER BY created_at`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faces []models.RegisteredFace
	for rows.Next() {
		face, err := scanFace(rows)
		if err != nil {
			return nil, err
		}
		faces = append(faces, *face)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if faces == nil {
		return []models.RegisteredFace{}, nil
	}

	return faces, nil
}

func (q *Queries) GetFaceByID(ctx context.Context, id int64, userID int64) (*models.RegisteredFace, error) {
	query := `SELECT ` + faceColumns + ` FROM registered_faces WHERE id = $1 AND user_id = $2`
	return scanFace(q.db.QueryRow(ctx, query, id, userID))
}

func (q *Queries) CountFaces(ctx context.Context, userID int64) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM registered_faces WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (q *Queries) CountActiveFaces(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT count(*) FROM registered_faces WHERE user_id = $1 AND is_active = TRUE`
	err := q.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (q *Queries) UpdateFace(ctx context.Context, face *models.RegisteredFace) (*models.RegisteredFace, error) {
	query := `
		UPDATE registered_faces
		SET face_name = $1, is_active = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + faceColumns

	row := q.db.QueryRow(ctx, query, face.FaceName, face.IsActive, face.ID, face.UserID)
	return scanFace(row)
}

// DeleteFace usuwa rekord i zwraca identyfikator obrazu, żeby wywołujący
// mógł posprzątać bloba po udanym commicie. Logi detekcji wskazujące tę
// twarz dostają NULL przez ON DELETE SET NULL.
func (q *Queries) DeleteFace(ctx context.Context, id int64, userID int64) (*string, bool, error) {
	query := `DELETE FROM registered_faces WHERE id = $1 AND user_id = $2 RETURNING face_image_id`
	var imageID *string
	err := q.db.QueryRow(ctx, query, id, userID).Scan(&imageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return imageID, true, nil
}

// CreateFaceEnforcingQuota atomowo sprawdza limit twarzy pakietu i wstawia
// rekord, analogicznie do CreateCameraEnforcingQuota.
func (s *Store) CreateFaceEnforcingQuota(ctx context.Context, arg CreateFaceParams) (*models.RegisteredFace, error) {
	var face *models.RegisteredFace

	txErr := s.ExecTx(ctx, func(q *Queries) error {
		if err := q.LockUserResource(ctx, lockClassFaces, arg.UserID); err != nil {
			return err
		}

		ent, err := q.GetEntitlements(ctx, arg.UserID)
		if err != nil {
			return err
		}

		if ent.FaceLimit != models.UnlimitedQuota {
			count, err := q.CountFaces(ctx, arg.UserID)
			if err != nil {
				return err
			}
			if count >= ent.FaceLimit {
				return &QuotaExceededError{Resource: "face", Limit: ent.FaceLimit}
			}
		}

		face, err = q.CreateFace(ctx, arg)
		return err
	})

	if txErr != nil {
		return nil, txErr
	}
	return face, nil
}
