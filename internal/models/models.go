package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Name         string `json:"name"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

// RefreshToken is the persisted half of a token pair. Token is the opaque
// secret handed to the client; JTI binds the row to the access token it was
// issued alongside. A row stays valid exactly until it is consumed, revoked
// or found expired.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	JTI       string `gorm:"index;not null"      json:"jti"`
	IsValid   bool   `gorm:"default:true"        json:"is_valid"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
}

type Villa struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Details   string    `json:"details"`
	Rate      float64   `gorm:"not null"                 json:"rate"`
	Occupancy int       `json:"occupancy"`
	Sqft      int       `json:"sqft"`
	ImageURL  string    `json:"image_url"`
	Amenity   string    `json:"amenity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VillaNumber struct {
	VillaNo        int       `gorm:"primaryKey"     json:"villa_no"`
	VillaID        int       `gorm:"index;not null" json:"villa_id"`
	SpecialDetails string    `json:"special_details"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
