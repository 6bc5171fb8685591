package domain

import "time"

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName       string     `gorm:"size:128" json:"first_name"`
	LastName        string     `gorm:"size:128" json:"last_name"`
	EmailVerified   bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
