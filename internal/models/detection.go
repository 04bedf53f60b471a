package models

import "time"

type DetectionLog struct {
	ID                  int64     `json:"id" db:"id"`
	UserID              int64     `json:"-" db:"user_id"`
	CameraID            int64     `json:"camera_id" db:"camera_id"`
	RegisteredFaceID    *int64    `json:"registered_face_id" db:"registered_face_id"`
	DetectionConfidence *float64  `json:"detection_confidence,omitempty" db:"detection_confidence"`
	DetectionImageID    *string   `json:"detection_image_id,omitempty" db:"detection_image_id"`
	DetectedAt          time.Time `json:"detected_at" db:"detected_at"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// CameraSummary to okrojony widok kamery dołączany do logów detekcji.
// Nigdy nie zawiera danych uwierzytelniających kamery.
type CameraSummary struct {
	ID          int64   `json:"id"`
	CameraName  string  `json:"camera_name"`
	CameraBrand *string `json:"camera_brand,omitempty"`
	CameraType  string  `json:"camera_type"`
}

type FaceSummary struct {
	ID          int64   `json:"id"`
	FaceName    string  `json:"face_name"`
	FaceImageID *string `json:"face_image_id,omitempty"`
}
