package models

import "time"

// Like marks an entry as liked by a user. The composite primary key makes
// the pair unique, so the toggle handler can never leave two rows behind.
type Like struct {
	UserID       uint `gorm:"primaryKey"`
	DiaryEntryID uint `gorm:"primaryKey"`
	CreatedAt    time.Time

	User  User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Entry DiaryEntry `gorm:"foreignKey:DiaryEntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
