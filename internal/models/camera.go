package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	CameraTypeIP     = "ip_camera"
	CameraTypeWebcam = "webcam"

	CameraStatusActive   = "active"
	CameraStatusInactive = "inactive"
	CameraStatusDisabled = "disabled"
)

type Camera struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"-" db:"user_id"`
	CameraName   string     `json:"camera_name" db:"camera_name"`
	CameraBrand  *string    `json:"camera_brand,omitempty" db:"camera_brand"`
	CameraType   string     `json:"camera_type" db:"camera_type" enums:"ip_camera,webcam"`
	IPAddress    *string    `json:"ip_address,omitempty" db:"ip_address"`
	Port         *int       `json:"port,omitempty" db:"port"`
	Username     *string    `json:"username,omitempty" db:"username"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	Status       string     `json:"status" db:"status" enums:"active,inactive,disabled"`
	LastSeen     *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

var (
	ErrInvalidCameraType   = errors.New("camera_type must be either ip_camera or webcam")
	ErrInvalidCameraStatus = errors.New("status must be active, inactive, or disabled")
	ErrInvalidPort         = errors.New("port must be between 1 and 65535")
	ErrIPCameraIncomplete  = errors.New("ip_camera requires both ip_address and port")
)

// ValidateCamera sprawdza wszystkie ograniczenia rekordu kamery w jednym
// miejscu. Używane zarówno przy tworzeniu, jak i po scaleniu częściowej
// aktualizacji, żeby scalony rekord nigdy nie łamał constraintów bazy.
func ValidateCamera(c *Camera) error {
	if c.CameraType != CameraTypeIP && c.CameraType != CameraTypeWebcam {
		return fmt.Errorf("%w (got %q)", ErrInvalidCameraType, c.CameraType)
	}
	switch c.Status {
	case CameraStatusActive, CameraStatusInactive, CameraStatusDisabled:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidCameraStatus, c.Status)
	}
	if c.Port != nil && (*c.Port < 1 || *c.Port > 65535) {
		return ErrInvalidPort
	}
	if c.CameraType == CameraTypeIP {
		if c.IPAddress == nil || *c.IPAddress == "" || c.Port == nil {
			return ErrIPCameraIncomplete
		}
	}
	return nil
}
