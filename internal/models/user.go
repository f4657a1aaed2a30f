package models

import "gorm.io/gorm"

// User represents a registered account.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// IconURL points at the avatar image in the external blob store.
	IconURL string `gorm:"size:2048"`
}
