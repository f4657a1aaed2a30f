package models

import "gorm.io/gorm"

// Comment is a user's remark on a diary entry. Deletable by its author or
// by the entry owner.
type Comment struct {
	gorm.Model
	DiaryEntryID uint   `gorm:"not null;index"`
	UserID       uint   `gorm:"not null;index"`
	Body         string `gorm:"type:text;not null"`

	User  User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Entry DiaryEntry `gorm:"foreignKey:DiaryEntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
