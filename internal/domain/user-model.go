package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:60;not null" json:"name"`
	PasswordHash string `json:"-"`
	Image        string `gorm:"default:default.jpg" json:"image"`
	Bio          string `json:"bio"`

	// Accepted friendships, both directions written on accept.
	Friends []*User `gorm:"many2many:user_friends" json:"friends,omitempty"`

	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	gorm.Model
}
