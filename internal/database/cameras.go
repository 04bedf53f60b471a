package database

import (
	"context"
	"errors"
	"serwer-detekcji/internal/models"

	"github.com/jackc/pgx/v5"
)

const cameraColumns = `
	id,
	user_id,
	camera_name,
	camera_brand,
	camera_type,
	ip_address,
	port,
	username,
	password_hash,
	status,
	last_seen,
	created_at,
	updated_at
`

func scanCamera(row pgx.Row) (*models.Camera, error) {
	var camera models.Camera
	err := row.Scan(
		&camera.ID,
		&camera.UserID,
		&camera.CameraName,
		&camera.CameraBrand,
		&camera.CameraType,
		&camera.IPAddress,
		&camera.Port,
		&camera.Username,
		&camera.PasswordHash,
		&camera.Status,
		&camera.LastSeen,
		&camera.CreatedAt,
		&camera.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &camera, nil
}

type CreateCameraParams struct {
	UserID       int64
	CameraName   string
	CameraBrand  *string
	CameraType   string
	IPAddress    *string
	Port         *int
	Username     *string
	PasswordHash *string
}

func (q *Queries) CreateCamera(ctx context.Context, arg CreateCameraParams) (*models.Camera, error) {
	query := `
		INSERT INTO cameras (user_id, camera_name, camera_brand, camera_type, ip_address, port, username, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'inactive')
		RETURNING ` + cameraColumns

	row := q.db.QueryRow(ctx, query,
		arg.UserID,
		arg.CameraName,
		arg.CameraBrand,
		arg.CameraType,
		arg.IPAddress,
		arg.Port,
		arg.Username,
		arg.PasswordHash,
	)
	return scanCamera(row)
}

func (q *Queries) ListCameras(ctx context.Context, userID int64) ([]models.Camera, error) {
	query := `SELECT ` + cameraColumns + ` FROM cameras WHERE user_id = $1 ORDER BY created_at`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		camera, err := scanCamera(rows)
		if err != nil {
			return nil, err
		}
		cameras = append(cameras, *camera)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if cameras == nil {
		return []models.Camera{}, nil
	}

	return cameras, nil
}

func (q *Queries) GetCameraByID(ctx context.Context, id int64, userID int64) (*models.Camera, error) {
	query := `SELECT ` + cameraColumns + ` FROM cameras WHERE id = $1 AND user_id = $2`
	return scanCamera(q.db.QueryRow(ctx, query, id, userID))
}

func (q *Queries) CountCameras(ctx context.Context, userID int64) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM cameras WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// UpdateCamera zapisuje scalony rekord kamery. Scalanie pól częściowej
// aktualizacji odbywa się w warstwie API; tutaj trafia już kompletny,
// zwalidowany stan.
func (q *Queries) UpdateCamera(ctx context.Context, camera *models.Camera) (*models.Camera, error) {
	query := `
		UPDATE cameras
		SET camera_name = $1,
		    camera_brand = $2,
		    camera_type = $3,
		    ip_address = $4,
		    port = $5,
		    username = $6,
		    password_hash = $7,
		    status = $8,
		    updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + cameraColumns

	row := q.db.QueryRow(ctx, query,
		camera.CameraName,
		camera.CameraBrand,
		camera.CameraType,
		camera.IPAddress,
		camera.Port,
		camera.Username,
		camera.PasswordHash,
		camera.Status,
		camera.ID,
		camera.UserID,
	)
	return scanCamera(row)
}

func (q *Queries) DeleteCamera(ctx context.Context, id int64, userID int64) (bool, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM cameras WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) TouchCameraLastSeen(ctx context.Context, id int64, userID int64) error {
	query := `UPDATE cameras SET last_seen = NOW() WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, id, userID)
	return err
}

// CreateCameraEnforcingQuota wykonuje sprawdzenie limitu i insert w jednej
// transakcji pod blokadą advisory, więc dwa równoległe żądania nie
// przemycą się ponad limit pakietu.
func (s *Store) CreateCameraEnforcingQuota(ctx context.Context, arg CreateCameraParams) (*models.Camera, error) {
	var camera *models.Camera

	txErr := s.ExecTx(ctx, func(q *Queries) error {
		if err := q.LockUserResource(ctx, lockClassCameras, arg.UserID); err != nil {
			return err
		}

		ent, err := q.GetEntitlements(ctx, arg.UserID)
		if err != nil {
			return err
		}

		if ent.CameraLimit != models.UnlimitedQuota {
			count, err := q.CountCameras(ctx, arg.UserID)
			if err != nil {
				return err
			}
			if count >= ent.CameraLimit {
				return &QuotaExceededError{Resource: "camera", Limit: ent.CameraLimit}
			}
		}

		camera, err = q.CreateCamera(ctx, arg)
		return err
	})

	if txErr != nil {
		return nil, txErr
	}
	return camera, nil
}
