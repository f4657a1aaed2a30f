package handler

import (
	"errors"
	"net/http"
	"strconv"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/hub"
	"naturelog/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// findFriendshipBetween returns the single friendship row between the two
// users, checking both directions.
func findFriendshipBetween(db *gorm.DB, a, b uint) (models.Friendship, error) {
	var friendship models.Friendship
	err := db.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		First(&friendship).Error
	return friendship, err
}

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Sends a friend request to another user. Any existing relationship between the pair, in either direction, is a conflict with a status-specific error.
// @Tags         friendship
// @Produce      json
// @Param        id path int true "Target User ID"
// @Success      201 {object} map[string]string "{"message": "Friend request sent"}"
// @Failure      400 {object} ErrorResponse "Cannot friend yourself"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Target user not found"
// @Failure      409 {object} ErrorResponse "Already friends / already requested / request was declined"
// @Router       /users/{id}/friend-request [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if userID == uint(targetUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a friend request to yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	existing, err := findFriendshipBetween(database.DB, userID, uint(targetUserID))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up friendship"})
			return
		}
		switch existing.Status {
		case models.StatusAccepted:
			c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		case models.StatusPending:
			c.JSON(http.StatusConflict, gin.H{"error": "Friend request already sent"})
		case models.StatusDeclined:
			c.JSON(http.StatusConflict, gin.H{"error": "Friend request was declined"})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": "Relationship already exists"})
		}
		return
	}

	friendship := models.Friendship{
		RequesterID: userID,
		AddresseeID: uint(targetUserID),
		Status:      models.StatusPending,
	}

	var notification models.Notification
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&friendship).Error; err != nil {
			return err
		}
		notification = models.Notification{
			RecipientID: friendship.AddresseeID,
			ActorID:     userID,
			Type:        models.NotificationFriendRequest,
		}
		return tx.Create(&notification).Error
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request"})
		return
	}

	hub.GlobalHub.Publish(notification.RecipientID, hub.Event{
		Type:    string(notification.Type),
		Payload: newNotificationResponse(notification),
	})

	c.JSON(http.StatusCreated, gin.H{"message": "Friend request sent"})
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Accepts a pending friend request. Only the addressee may accept, and only while the request is pending.
// @Tags         friendship
// @Produce      json
// @Param        id path int true "Requesting User ID"
// @Success      200 {object} map[string]string "{"message": "Friend request accepted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Pending request not found"
// @Router       /users/{id}/friend-request/accept [post]
func AcceptFriendRequest(c *gin.Context) {
	respondToFriendRequest(c, models.StatusAccepted, "Friend request accepted")
}

// DeclineFriendRequest godoc
// @Summary      Decline a friend request
// @Description  Declines a pending friend request. The declined status is persisted so the pair cannot immediately re-request.
// @Tags         friendship
// @Produce      json
// @Param        id path int true "Requesting User ID"
// @Success      200 {object} map[string]string "{"message": "Friend request declined"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Pending request not found"
// @Router       /users/{id}/friend-request/decline [post]
func DeclineFriendRequest(c *gin.Context) {
	respondToFriendRequest(c, models.StatusDeclined, "Friend request declined")
}

// respondToFriendRequest transitions a pending request to the given status.
// The status filter doubles as the only-once guard: an already answered
// request is simply not found.
func respondToFriendRequest(c *gin.Context, status models.FriendshipStatus, message string) {
	viewerID, _ := c.Get("userID")

	requesterID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	var request models.Friendship
	err = database.DB.
		Where("requester_id = ? AND addressee_id = ? AND status = ?", uint(requesterID), viewerID, models.StatusPending).
		First(&request).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending friend request not found"})
		return
	}

	if err := database.DB.Model(&request).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update friend request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetFriends godoc
// @Summary      List friends
// @Description  Returns all users with an accepted friendship with the viewer, whichever side sent the request.
// @Tags         friendship
// @Produce      json
// @Success      200 {array} PublicUserResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friends [get]
func GetFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var friendships []models.Friendship
	err := database.DB.
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.StatusAccepted, userID, userID).
		Preload("Requester").
		Preload("Addressee").
		Find(&friendships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve friends"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(friendships))
	for _, f := range friendships {
		friend := f.Requester
		if f.RequesterID == userID {
			friend = f.Addressee
		}
		responses = append(responses, buildPublicUserResponse(friend))
	}

	c.JSON(http.StatusOK, responses)
}

// GetFriendRequests godoc
// @Summary      List incoming friend requests
// @Description  Returns pending friend requests addressed to the viewer, newest first.
// @Tags         friendship
// @Produce      json
// @Success      200 {array} PublicUserResponse
// @Failure      401 {object} ErrorResponse
// @Router       /friend-requests [get]
func GetFriendRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var requests []models.Friendship
	err := database.DB.
		Where("addressee_id = ? AND status = ?", viewerID, models.StatusPending).
		Order("created_at DESC").
		Preload("Requester").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve friend requests"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, buildPublicUserResponse(r.Requester))
	}

	c.JSON(http.StatusOK, responses)
}

// RemoveFriend godoc
// @Summary      Remove a friendship
// @Description  Deletes the relationship between the viewer and the given user, whichever side created it. Also used to cancel an outgoing request.
// @Tags         friendship
// @Produce      json
// @Param        id path int true "Other User ID"
// @Success      200 {object} map[string]string "{"message": "Friendship removed"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Friendship not found"
// @Router       /friends/{id} [delete]
func RemoveFriend(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	otherUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result := database.DB.
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID, uint(otherUserID), uint(otherUserID), userID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friendship"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friendship removed"})
}
