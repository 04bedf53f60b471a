package database

import (
	"context"
	"errors"
	"serwer-detekcji/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrCameraNotFound = errors.New("camera not found or user is not the owner")
var ErrFaceNotFound = errors.New("face not found or user is not the owner")

// DetectionWithContext to wpis logu detekcji wzbogacony o okrojone widoki
// kamery i rozpoznanej twarzy, tak jak konsumuje je dashboard.
type DetectionWithContext struct {
	models.DetectionLog
	Camera         *models.CameraSummary `json:"camera"`
	RegisteredFace *models.FaceSummary   `json:"registered_face"`
}

func (q *Queries) ListDetections(ctx context.Context, userID int64, limit int, offset int) ([]DetectionWithContext, error) {
	query := `
		SELECT
			d.id, d.user_id, d.camera_id, d.registered_face_id,
			d.detection_confidence, d.detection_image_id, d.detected_at, d.created_at,
			c.id, c.camera_name, c.camera_brand, c.camera_type,
			f.id, f.face_name, f.face_image_id
		FROM detection_logs d
		JOIN cameras c ON d.camera_id = c.id
		LEFT JOIN registered_faces f ON d.registered_face_id = f.id
		WHERE d.user_id = $1
		ORDER BY d.detected_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detections []DetectionWithContext
	for rows.Next() {
		var det DetectionWithContext
		var camera models.CameraSummary
		var faceID *int64
		var faceName *string
		var faceImageID *string

		err := rows.Scan(
			&det.ID, &det.UserID, &det.CameraID, &det.RegisteredFaceID,
			&det.DetectionConfidence, &det.DetectionImageID, &det.DetectedAt, &det.CreatedAt,
			&camera.ID, &camera.CameraName, &camera.CameraBrand, &camera.CameraType,
			&faceID, &faceName, &faceImageID,
		)
		if err != nil {
			return nil, err
		}

		det.Camera = &camera
		if faceID != nil {
			det.RegisteredFace = &models.FaceSummary{
				ID:          *faceID,
				FaceName:    *faceName,
				FaceImageID: faceImageID,
			}
		}
		detections = append(detections, det)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if detections == nil {
		return []DetectionWithContext{}, nil
	}

	return detections, nil
}

type CreateDetectionParams struct {
	UserID              int64
	CameraID            int64
	RegisteredFaceID    *int64
	DetectionConfidence *float64
	DetectionImageID    *string
	DetectedAt          *time.Time
}

// CreateDetectionLog wstawia wpis tylko dla kamery (i ewentualnie twarzy)
// należącej do użytkownika; obce identyfikatory wyglądają jak nieistniejące.
// Sprawdzenie właściciela i insert idą w jednej transakcji, a naruszenie
// klucza obcego (zasób usunięty w międzyczasie) wraca jako ten sam błąd
// co brak zasobu, nie jako błąd serwera.
func (s *Store) CreateDetectionLog(ctx context.Context, arg CreateDetectionParams) (*models.DetectionLog, error) {
	var det *models.DetectionLog

	txErr := s.ExecTx(ctx, func(q *Queries) error {
		camera, err := q.GetCameraByID(ctx, arg.CameraID, arg.UserID)
		if err != nil {
			return err
		}
		if camera == nil {
			return ErrCameraNotFound
		}

		if arg.RegisteredFaceID != nil {
			face, err := q.GetFaceByID(ctx, *arg.RegisteredFaceID, arg.UserID)
			if err != nil {
				return err
			}
			if face == nil {
				return ErrFaceNotFound
			}
		}

		det, err = q.insertDetectionLog(ctx, arg)
		return err
	})

	if txErr != nil {
		var pgErr *pgconn.PgError
		if errors.As(txErr, &pgErr) && pgErr.Code == "23503" {
			if pgErr.ConstraintName == "detection_logs_registered_face_id_fkey" {
				return nil, ErrFaceNotFound
			}
			return nil, ErrCameraNotFound
		}
		return nil, txErr
	}
	return det, nil
}

func (q *Queries) insertDetectionLog(ctx context.Context, arg CreateDetectionParams) (*models.DetectionLog, error) {
	detectedAt := time.Now()
	if arg.DetectedAt != nil {
		detectedAt = *arg.DetectedAt
	}

	query := `
		INSERT INTO detection_logs (user_id, camera_id, registered_face_id, detection_confidence, detection_image_id, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, camera_id, registered_face_id, detection_confidence, detection_image_id, detected_at, created_at
	`
	var det models.DetectionLog
	err := q.db.QueryRow(ctx, query,
		arg.UserID, arg.CameraID, arg.RegisteredFaceID,
		arg.DetectionConfidence, arg.DetectionImageID, detectedAt,
	).Scan(
		&det.ID, &det.UserID, &det.CameraID, &det.RegisteredFaceID,
		&det.DetectionConfidence, &det.DetectionImageID, &det.DetectedAt, &det.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &det, nil
}

func (q *Queries) CountDetectionsToday(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT count(*) FROM detection_logs WHERE user_id = $1 AND detected_at >= CURRENT_DATE`
	err := q.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
