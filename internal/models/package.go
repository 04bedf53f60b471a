package models

import "time"

type Package struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Price              string    `json:"price" db:"price" example:"29.99"`
	Period             string    `json:"period" db:"period" example:"monthly"`
	Description        *string   `json:"description,omitempty" db:"description"`
	Features           []string  `json:"features,omitempty" db:"features"`
	CameraLimit        int       `json:"camera_limit" db:"camera_limit"`
	MaxRegisteredFaces int       `json:"max_registered_faces" db:"max_registered_faces"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// UnlimitedQuota oznacza brak limitu zasobów w pakiecie.
const UnlimitedQuota = -1
