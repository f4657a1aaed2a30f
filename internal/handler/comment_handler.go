package handler

import (
	"net/http"
	"strconv"
	"time"

	"naturelog/backend/internal/auth"
	"naturelog/backend/internal/database"
	"naturelog/backend/internal/hub"
	"naturelog/backend/internal/models"
	"naturelog/backend/internal/visibility"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type CommentInput struct {
	Body string `json:"body" binding:"required"`
}

type CommentResponse struct {
	ID           uint               `json:"id"`
	DiaryEntryID uint               `json:"diary_entry_id"`
	Body         string             `json:"body"`
	CreatedAt    time.Time          `json:"created_at"`
	Author       PublicUserResponse `json:"author"`
}

func newCommentResponse(comment models.Comment) CommentResponse {
	var author models.User
	database.DB.First(&author, comment.UserID)

	return CommentResponse{
		ID:           comment.ID,
		DiaryEntryID: comment.DiaryEntryID,
		Body:         comment.Body,
		CreatedAt:    comment.CreatedAt,
		Author:       buildPublicUserResponse(author),
	}
}

// endregion

// GetComments godoc
// @Summary      List comments on an entry
// @Description  Returns the comments of an entry the viewer may read, oldest first.
// @Tags         comments
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200 {array} CommentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /entries/{id}/comments [get]
func GetComments(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	entry, err := visibility.New(database.DB).GetEntry(uint(entryID), auth.ViewerID(c))
	if err != nil {
		respondVisibilityError(c, err)
		return
	}

	var comments []models.Comment
	if err := database.DB.
		Where("diary_entry_id = ?", entry.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, newCommentResponse(comment))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateComment godoc
// @Summary      Comment on an entry
// @Description  Adds a comment to an entry the viewer may read. Commenting on someone else's entry creates a notification in the same transaction.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  int          true  "Entry ID"
// @Param        input body  CommentInput true  "Comment"
// @Success      201 {object} CommentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /entries/{id}/comments [post]
func CreateComment(c *gin.Context) {
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

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		DiaryEntryID: entry.ID,
		UserID:       userID,
		Body:         input.Body,
	}

	var notification *models.Notification
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if entry.UserID != userID {
			entryID := entry.ID
			n := models.Notification{
				RecipientID:  entry.UserID,
				ActorID:      userID,
				Type:         models.NotificationNewComment,
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if notification != nil {
		hub.GlobalHub.Publish(notification.RecipientID, hub.Event{
			Type:    string(notification.Type),
			Payload: newNotificationResponse(*notification),
		})
	}

	c.JSON(http.StatusCreated, newCommentResponse(comment))
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Deletes a comment. Allowed for the comment author and for the owner of the commented entry.
// @Tags         comments
// @Produce      json
// @Param        id path int true "Comment ID"
// @Success      200 {object} map[string]string "{"message": "Comment deleted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /comments/{id} [delete]
func DeleteComment(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, uint(commentID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var entry models.DiaryEntry
	if err := database.DB.First(&entry, comment.DiaryEntryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if comment.UserID != userID && entry.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the comment author or the entry owner can delete the comment"})
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
