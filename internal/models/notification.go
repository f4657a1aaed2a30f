package models

import "gorm.io/gorm"

// NotificationType says what the actor did.
type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationNewLike       NotificationType = "new_like"
	NotificationNewComment    NotificationType = "new_comment"
)

// Notification tells RecipientID that ActorID liked, commented, or sent a
// friend request. DiaryEntryID is set for the entry-related types.
type Notification struct {
	gorm.Model
	RecipientID  uint             `gorm:"not null;index"`
	ActorID      uint             `gorm:"not null"`
	Type         NotificationType `gorm:"type:varchar(30);not null"`
	DiaryEntryID *uint
	IsRead       bool `gorm:"not null;default:false;index"`

	Actor User `gorm:"foreignKey:ActorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
