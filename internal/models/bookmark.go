package models

import (
	"time"

	"gorm.io/gorm"
)

// BookmarkAlbum is a user-named collection of bookmarked entries.
type BookmarkAlbum struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Name   string `gorm:"size:255;not null"`

	Bookmarks []Bookmark `gorm:"foreignKey:AlbumID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Bookmark files one entry into one album, unique per (album, entry). Rows
// are deleted for real, not soft-deleted: a soft-deleted row would still
// occupy the unique index and block re-bookmarking the same entry.
type Bookmark struct {
	ID           uint `gorm:"primarykey"`
	AlbumID      uint `gorm:"not null;uniqueIndex:idx_album_entry"`
	DiaryEntryID uint `gorm:"not null;uniqueIndex:idx_album_entry"`
	CreatedAt    time.Time

	Entry DiaryEntry `gorm:"foreignKey:DiaryEntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
