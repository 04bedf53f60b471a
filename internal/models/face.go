package models

import "time"

type RegisteredFace struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"-" db:"user_id"`
	FaceName    string    `json:"face_name" db:"face_name"`
	FaceImageID *string   `json:"face_image_id,omitempty" db:"face_image_id"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
