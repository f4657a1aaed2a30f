package models

import (
	"time"

	"gorm.io/gorm"
)

// PrivacyLevel controls who may read a diary entry.
type PrivacyLevel string

const (
	// PrivacyPrivate means only the owner can read the entry.
	PrivacyPrivate PrivacyLevel = "private"

	// PrivacyFriendsOnly means the owner and accepted friends can read it.
	PrivacyFriendsOnly PrivacyLevel = "friends_only"

	// PrivacyPublic means anyone, including anonymous viewers, can read it.
	PrivacyPublic PrivacyLevel = "public"

	// PrivacyPublicAnonymous is public, but the author identity is blanked
	// in responses.
	PrivacyPublicAnonymous PrivacyLevel = "public_anonymous"
)

// Valid reports whether p is one of the enumerated privacy levels.
func (p PrivacyLevel) Valid() bool {
	switch p {
	case PrivacyPrivate, PrivacyFriendsOnly, PrivacyPublic, PrivacyPublicAnonymous:
		return true
	}
	return false
}

// Anonymous reports whether the author should be hidden from readers.
func (p PrivacyLevel) Anonymous() bool {
	return p == PrivacyPublicAnonymous
}

// DiaryEntry is a geotagged nature observation.
type DiaryEntry struct {
	gorm.Model
	UserID       uint         `gorm:"not null;index"`
	Title        string       `gorm:"size:255;not null"`
	Description  string       `gorm:"type:text"`
	ImageURL     string       `gorm:"size:2048"`
	Latitude     float64      `gorm:"not null"`
	Longitude    float64      `gorm:"not null"`
	TakenAt      time.Time    `gorm:"not null;index"`
	Category     string       `gorm:"size:100;index"`
	PrivacyLevel PrivacyLevel `gorm:"type:varchar(20);not null;index"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
