package handler

import (
	"net/http"
	"testing"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, recipient, actor models.User, nType models.NotificationType) models.Notification {
	t.Helper()
	n := models.Notification{
		RecipientID: recipient.ID,
		ActorID:     actor.ID,
		Type:        nType,
	}
	require.NoError(t, database.DB.Create(&n).Error)
	return n
}

func TestGetNotifications(t *testing.T) {
	router := setupRouter(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	seedNotification(t, alice, bob, models.NotificationFriendRequest)
	seedNotification(t, alice, bob, models.NotificationNewLike)
	seedNotification(t, bob, alice, models.NotificationNewComment)

	t.Run("lists only the viewer's notifications with unread count", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications", nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[PaginatedNotificationResponse](t, rec)
		require.Len(t, resp.Data, 2)
		assert.EqualValues(t, 2, resp.Meta.TotalItems)
		assert.EqualValues(t, 2, resp.UnreadCount)
		for _, n := range resp.Data {
			assert.Equal(t, bob.ID, n.ActorID)
			assert.False(t, n.IsRead)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/notifications", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMarkNotificationsRead(t *testing.T) {
	router := setupRouter(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	first := seedNotification(t, alice, bob, models.NotificationNewLike)
	seedNotification(t, alice, bob, models.NotificationNewComment)
	foreign := seedNotification(t, bob, alice, models.NotificationNewLike)

	unread := func(t *testing.T, recipientID uint) int64 {
		t.Helper()
		var count int64
		require.NoError(t, database.DB.Model(&models.Notification{}).
			Where("recipient_id = ? AND is_read = ?", recipientID, false).
			Count(&count).Error)
		return count
	}

	t.Run("marks only the listed ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications/read",
			map[string]any{"ids": []uint{first.ID}}, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, unread(t, alice.ID))
	})

	t.Run("cannot mark another user's notifications", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications/read",
			map[string]any{"ids": []uint{foreign.ID}}, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, unread(t, bob.ID))
	})

	t.Run("empty body marks everything", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications/read", nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 0, unread(t, alice.ID))
	})
}
