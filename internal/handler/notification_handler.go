package handler

import (
	"io"
	"net/http"
	"time"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/hub"
	"naturelog/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type NotificationResponse struct {
	ID           uint                    `json:"id"`
	Type         models.NotificationType `json:"type"`
	ActorID      uint                    `json:"actor_id"`
	DiaryEntryID *uint                   `json:"diary_entry_id,omitempty"`
	IsRead       bool                    `json:"is_read"`
	CreatedAt    time.Time               `json:"created_at"`
}

type MarkReadInput struct {
	// IDs limits the update to the listed notifications; empty marks all.
	IDs []uint `json:"ids"`
}

// PaginatedNotificationResponse is a notification page plus the unread count.
type PaginatedNotificationResponse struct {
	Data        []NotificationResponse `json:"data"`
	Meta        PaginationMeta         `json:"meta"`
	UnreadCount int64                  `json:"unread_count"`
}

func newNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		ActorID:      n.ActorID,
		DiaryEntryID: n.DiaryEntryID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

// endregion

// GetNotifications godoc
// @Summary      List notifications
// @Description  Returns the viewer's notifications, newest first, with the total unread count.
// @Tags         notifications
// @Produce      json
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200 {object} PaginatedNotificationResponse
// @Failure      401 {object} ErrorResponse
// @Router       /notifications [get]
func GetNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	page, limit, offset := pageParams(c)

	query := database.DB.Model(&models.Notification{}).Where("recipient_id = ?", viewerID)

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", viewerID, false).
		Count(&unreadCount)

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, newNotificationResponse(n))
	}

	paginated := NewPaginatedResponse(responses, totalItems, page, limit)
	c.JSON(http.StatusOK, PaginatedNotificationResponse{
		Data:        paginated.Data,
		Meta:        paginated.Meta,
		UnreadCount: unreadCount,
	})
}

// MarkNotificationsRead godoc
// @Summary      Mark notifications as read
// @Description  Marks the listed notifications as read, or all of the viewer's notifications if no ids are given.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        input body MarkReadInput false "Notification IDs"
// @Success      200 {object} map[string]string "{"message": "Notifications marked read"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /notifications/read [post]
func MarkNotificationsRead(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input MarkReadInput
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := database.DB.Model(&models.Notification{}).Where("recipient_id = ?", viewerID)
	if len(input.IDs) > 0 {
		query = query.Where("id IN ?", input.IDs)
	}

	if err := query.Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked read"})
}

// StreamNotifications godoc
// @Summary      Stream notifications
// @Description  Server-sent event stream of the viewer's new notifications.
// @Tags         notifications
// @Produce      text/event-stream
// @Success      200
// @Failure      401 {object} ErrorResponse
// @Router       /notifications/stream [get]
func StreamNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(userID, client)
	defer hub.GlobalHub.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
