package models

import "time"

// HiddenEntry is a viewer-scoped suppression of a single entry. It only
// affects the hiding user's own listings, it is not a global block.
type HiddenEntry struct {
	UserID       uint `gorm:"primaryKey"`
	DiaryEntryID uint `gorm:"primaryKey"`
	CreatedAt    time.Time

	Entry DiaryEntry `gorm:"foreignKey:DiaryEntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// HiddenUser suppresses every entry authored by HiddenUserID from the
// hiding user's listings.
type HiddenUser struct {
	UserID       uint `gorm:"primaryKey"`
	HiddenUserID uint `gorm:"primaryKey"`
	CreatedAt    time.Time

	Hidden User `gorm:"foreignKey:HiddenUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
