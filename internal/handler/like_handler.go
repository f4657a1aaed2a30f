package handler

import (
	"errors"
	"net/http"
	"strconv"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/hub"
	"naturelog/backend/internal/models"
	"naturelog/backend/internal/visibility"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToggleLike godoc
// @Summary      Toggle a like on an entry
// @Description  Likes the entry, or removes the like if it is already present. Liking someone else's entry creates a notification in the same transaction.
// @Tags         likes
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200 {object} map[string]interface{} "{"liked": true, "like_count": 3}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /entries/{id}/like [post]
func ToggleLike(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	vid := userID
	entry, err := visibility.New(database.DB).GetEntry(uint(entryID), &vid)
	if err != nil {
		respondVisibilityError(c, err)
		return
	}

	var existing models.Like
	err = database.DB.
		Where("user_id = ? AND diary_entry_id = ?", userID, entry.ID).
		First(&existing).Error

	liked := false
	var notification *models.Notification

	switch {
	case err == nil:
		// Second toggle: remove the like.
		if err := database.DB.
			Where("user_id = ? AND diary_entry_id = ?", userID, entry.ID).
			Delete(&models.Like{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove like"})
			return
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		liked = true
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			like := models.Like{UserID: userID, DiaryEntryID: entry.ID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if entry.UserID != userID {
				entryID := entry.ID
				n := models.Notification{
					RecipientID:  entry.UserID,
					ActorID:      userID,
					Type:         models.NotificationNewLike,
					DiaryEntryID: &entryID,
				}
				if err := tx.Create(&n).Error; err != nil {
					return err
				}
				notification = &n
			}
			return nil
		})
		if txErr != nil {
			// A concurrent toggle can hit the unique pair constraint; the
			// loser of that race surfaces it as a conflict. Anything else
			// is a real store failure.
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Entry already liked"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create like"})
			return
		}

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up like"})
		return
	}

	if notification != nil {
		hub.GlobalHub.Publish(notification.RecipientID, hub.Event{
			Type:    string(notification.Type),
			Payload: newNotificationResponse(*notification),
		})
	}

	var likeCount int64
	database.DB.Model(&models.Like{}).Where("diary_entry_id = ?", entry.ID).Count(&likeCount)

	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": likeCount})
}
