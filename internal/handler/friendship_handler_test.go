package handler

import (
	"fmt"
	"net/http"
	"testing"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFriendships(t *testing.T, a, b uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Model(&models.Friendship{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Count(&count).Error)
	return count
}

func TestSendFriendRequest(t *testing.T) {
	router := setupRouter(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	requestPath := func(id uint) string {
		return fmt.Sprintf("/api/v1/users/%d/friend-request", id)
	}

	t.Run("creates a pending request and a notification", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, requestPath(bob.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusCreated, rec.Code)

		var friendship models.Friendship
		require.NoError(t, database.DB.
			Where("requester_id = ? AND addressee_id = ?", alice.ID, bob.ID).
			First(&friendship).Error)
		assert.Equal(t, models.StatusPending, friendship.Status)

		assert.EqualValues(t, 1, countNotifications(t, bob.ID, models.NotificationFriendRequest))
	})

	t.Run("duplicate pending request is a conflict", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, requestPath(bob.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "already sent")
		assert.EqualValues(t, 1, countFriendships(t, alice.ID, bob.ID))
	})

	t.Run("reverse-direction request is also a conflict", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, requestPath(alice.ID), nil, authCookie(t, bob.ID))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.EqualValues(t, 1, countFriendships(t, alice.ID, bob.ID))
	})

	t.Run("accepted pair reports already friends", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/users/%d/friend-request/accept", alice.ID), nil, authCookie(t, bob.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPost, requestPath(bob.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "Already friends")
		assert.EqualValues(t, 1, countFriendships(t, alice.ID, bob.ID))
	})

	t.Run("declined pair reports the decline", func(t *testing.T) {
		carol := createUser(t, "carol")
		rec := doRequest(t, router, http.MethodPost, requestPath(carol.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusCreated, rec.Code)
		rec = doRequest(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/users/%d/friend-request/decline", alice.ID), nil, authCookie(t, carol.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodPost, requestPath(carol.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "declined")
		assert.EqualValues(t, 1, countFriendships(t, alice.ID, carol.ID))
	})

	t.Run("cannot friend yourself", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, requestPath(alice.ID), nil, authCookie(t, alice.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown target is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, requestPath(99999), nil, authCookie(t, alice.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRespondToFriendRequest(t *testing.T) {
	router := setupRouter(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	eve := createUser(t, "eve")

	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%d/friend-request", bob.ID), nil, authCookie(t, alice.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	acceptPath := fmt.Sprintf("/api/v1/users/%d/friend-request/accept", alice.ID)

	t.Run("only the addressee may accept", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, acceptPath, nil, authCookie(t, eve.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// The requester cannot accept their own request either.
		rec = doRequest(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/users/%d/friend-request/accept", bob.ID), nil, authCookie(t, alice.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("addressee accepts once", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, acceptPath, nil, authCookie(t, bob.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var friendship models.Friendship
		require.NoError(t, database.DB.
			Where("requester_id = ? AND addressee_id = ?", alice.ID, bob.ID).
			First(&friendship).Error)
		assert.Equal(t, models.StatusAccepted, friendship.Status)

		// A second response hits a request that is no longer pending.
		rec = doRequest(t, router, http.MethodPost, acceptPath, nil, authCookie(t, bob.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFriendListings(t *testing.T) {
	router := setupRouter(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	dave := createUser(t, "dave")

	// alice -> bob accepted, carol -> alice accepted, dave -> alice pending.
	makeFriends(t, alice, bob)
	makeFriends(t, carol, alice)
	require.NoError(t, database.DB.Create(&models.Friendship{
		RequesterID: dave.ID,
		AddresseeID: alice.ID,
		Status:      models.StatusPending,
	}).Error)

	t.Run("friends include both directions", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/friends", nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		friends := decodeBody[[]PublicUserResponse](t, rec)
		nicknames := make([]string, 0, len(friends))
		for _, f := range friends {
			nicknames = append(nicknames, f.Nickname)
		}
		assert.ElementsMatch(t, []string{"bob", "carol"}, nicknames)
	})

	t.Run("incoming pending requests", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/friend-requests", nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		requests := decodeBody[[]PublicUserResponse](t, rec)
		require.Len(t, requests, 1)
		assert.Equal(t, "dave", requests[0].Nickname)
	})

	t.Run("remove friendship from either side", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/friends/%d", carol.ID), nil, authCookie(t, alice.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 0, countFriendships(t, alice.ID, carol.ID))

		rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/friends/%d", carol.ID), nil, authCookie(t, alice.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
