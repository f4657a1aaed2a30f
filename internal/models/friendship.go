package models

import "time"

// FriendshipStatus is the state of a friend request between two users.
type FriendshipStatus string

const (
	// StatusPending means the request was sent but not yet answered.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the users are friends. Acceptance makes the
	// relationship symmetric: either side counts as a friend of the other.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusDeclined means the addressee rejected the request. The row is
	// kept so a declined pair cannot immediately re-request.
	StatusDeclined FriendshipStatus = "declined"
)

// Friendship represents the single relationship row between two users.
// The primary key is a composite of (RequesterID, AddresseeID); at most one
// row may exist per unordered pair, which the handlers enforce by checking
// both directions before creating one.
type Friendship struct {
	RequesterID uint             `gorm:"primaryKey"`
	AddresseeID uint             `gorm:"primaryKey"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Requester User `gorm:"foreignKey:RequesterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Addressee User `gorm:"foreignKey:AddresseeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OtherSide returns the participant that is not userID.
func (f Friendship) OtherSide(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
