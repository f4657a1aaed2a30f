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

func TestCreateEntry(t *testing.T) {
	router := setupRouter(t)
	owner := createUser(t, "owner")

	t.Run("creates a valid entry", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", validEntryInput(models.PrivacyPublic), authCookie(t, owner.ID))
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeBody[EntryResponse](t, rec)
		assert.Equal(t, "Heron at the riverbank", resp.Title)
		assert.Equal(t, models.PrivacyPublic, resp.PrivacyLevel)
		require.NotNil(t, resp.Author)
		assert.Equal(t, owner.ID, resp.Author.ID)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", validEntryInput(models.PrivacyPublic), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		input := validEntryInput(models.PrivacyPublic)
		delete(input, "title")
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", input, authCookie(t, owner.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects out-of-range latitude", func(t *testing.T) {
		input := validEntryInput(models.PrivacyPublic)
		input["latitude"] = 123.0
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", input, authCookie(t, owner.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed taken_at", func(t *testing.T) {
		input := validEntryInput(models.PrivacyPublic)
		input["taken_at"] = "yesterday morning"
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", input, authCookie(t, owner.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown privacy level", func(t *testing.T) {
		input := validEntryInput(models.PrivacyPublic)
		input["privacy_level"] = "everyone"
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", input, authCookie(t, owner.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetEntryVisibility(t *testing.T) {
	router := setupRouter(t)
	owner := createUser(t, "owner")
	friend := createUser(t, "friend")
	stranger := createUser(t, "stranger")
	makeFriends(t, friend, owner)

	entries := map[models.PrivacyLevel]models.DiaryEntry{
		models.PrivacyPublic:          createEntry(t, owner, "public entry", models.PrivacyPublic),
		models.PrivacyPublicAnonymous: createEntry(t, owner, "anonymous entry", models.PrivacyPublicAnonymous),
		models.PrivacyFriendsOnly:     createEntry(t, owner, "friends entry", models.PrivacyFriendsOnly),
		models.PrivacyPrivate:         createEntry(t, owner, "private entry", models.PrivacyPrivate),
	}

	get := func(t *testing.T, entryID uint, cookie *http.Cookie) int {
		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/entries/%d", entryID), nil, cookie)
		return rec.Code
	}

	t.Run("public entries are visible to everyone", func(t *testing.T) {
		for _, level := range []models.PrivacyLevel{models.PrivacyPublic, models.PrivacyPublicAnonymous} {
			assert.Equal(t, http.StatusOK, get(t, entries[level].ID, nil))
			assert.Equal(t, http.StatusOK, get(t, entries[level].ID, authCookie(t, stranger.ID)))
			assert.Equal(t, http.StatusOK, get(t, entries[level].ID, authCookie(t, owner.ID)))
		}
	})

	t.Run("private entries are owner-only", func(t *testing.T) {
		id := entries[models.PrivacyPrivate].ID
		assert.Equal(t, http.StatusOK, get(t, id, authCookie(t, owner.ID)))
		assert.Equal(t, http.StatusForbidden, get(t, id, authCookie(t, stranger.ID)))
		assert.Equal(t, http.StatusForbidden, get(t, id, authCookie(t, friend.ID)))
		assert.Equal(t, http.StatusForbidden, get(t, id, nil))
	})

	t.Run("friends-only entries open to accepted friends on either side", func(t *testing.T) {
		id := entries[models.PrivacyFriendsOnly].ID
		assert.Equal(t, http.StatusOK, get(t, id, authCookie(t, owner.ID)))
		assert.Equal(t, http.StatusOK, get(t, id, authCookie(t, friend.ID)))
		assert.Equal(t, http.StatusForbidden, get(t, id, authCookie(t, stranger.ID)))
		assert.Equal(t, http.StatusForbidden, get(t, id, nil))
	})

	t.Run("missing entries are 404 regardless of viewer", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, 99999, nil))
		assert.Equal(t, http.StatusNotFound, get(t, 99999, authCookie(t, owner.ID)))
	})

	t.Run("anonymous-public entries omit the author", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/entries/%d", entries[models.PrivacyPublicAnonymous].ID), nil, authCookie(t, stranger.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[EntryResponse](t, rec)
		assert.Nil(t, resp.Author)
	})

	t.Run("anonymous-public entries still show the author to the owner", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/entries/%d", entries[models.PrivacyPublicAnonymous].ID), nil, authCookie(t, owner.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[EntryResponse](t, rec)
		require.NotNil(t, resp.Author)
		assert.Equal(t, owner.ID, resp.Author.ID)
	})
}

func TestFriendsOnlyBecomesVisibleAfterAcceptance(t *testing.T) {
	router := setupRouter(t)
	a := createUser(t, "alice")
	b := createUser(t, "bob")
	entry := createEntry(t, a, "friends only sighting", models.PrivacyFriendsOnly)

	path := fmt.Sprintf("/api/v1/entries/%d", entry.ID)

	rec := doRequest(t, router, http.MethodGet, path, nil, authCookie(t, b.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request", a.ID), nil, authCookie(t, b.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/friend-request/accept", b.ID), nil, authCookie(t, a.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, path, nil, authCookie(t, b.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[EntryResponse](t, rec)
	assert.Equal(t, "friends only sighting", resp.Title)
}

func TestGetEntriesListing(t *testing.T) {
	router := setupRouter(t)
	owner := createUser(t, "owner")
	friend := createUser(t, "friend")
	stranger := createUser(t, "stranger")
	makeFriends(t, owner, friend)

	createEntry(t, owner, "public one", models.PrivacyPublic)
	createEntry(t, owner, "anon one", models.PrivacyPublicAnonymous)
	createEntry(t, owner, "friends one", models.PrivacyFriendsOnly)
	createEntry(t, owner, "private one", models.PrivacyPrivate)

	listTitles := func(t *testing.T, cookie *http.Cookie, query string) []string {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/entries"+query, nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[PaginatedEntryResponse](t, rec)
		out := make([]string, 0, len(resp.Data))
		for _, e := range resp.Data {
			out = append(out, e.Title)
		}
		return out
	}

	t.Run("anonymous viewers see only public levels", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"public one", "anon one"}, listTitles(t, nil, ""))
	})

	t.Run("strangers see only public levels", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"public one", "anon one"}, listTitles(t, authCookie(t, stranger.ID), ""))
	})

	t.Run("friends additionally see friends-only entries", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"public one", "anon one", "friends one"},
			listTitles(t, authCookie(t, friend.ID), ""))
	})

	t.Run("owners see everything of their own", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"public one", "anon one", "friends one", "private one"},
			listTitles(t, authCookie(t, owner.ID), ""))
	})

	t.Run("text search filters on title and description", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"anon one"}, listTitles(t, nil, "?q=Anon"))
	})

	t.Run("category filter", func(t *testing.T) {
		assert.Empty(t, listTitles(t, nil, "?category=mushroom"))
	})

	t.Run("bounding box filter", func(t *testing.T) {
		assert.Empty(t, listTitles(t, nil, "?min_lat=40&max_lat=50"))
		assert.Len(t, listTitles(t, nil, "?min_lat=35&max_lat=36&min_lng=139&max_lng=140"), 2)
	})

	t.Run("malformed bounding box is a 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/entries?min_lat=north", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateEntry(t *testing.T) {
	router := setupRouter(t)
	owner := createUser(t, "owner")
	other := createUser(t, "other")
	entry := createEntry(t, owner, "draft title", models.PrivacyPublic)
	path := fmt.Sprintf("/api/v1/entries/%d", entry.ID)

	t.Run("owner can update", func(t *testing.T) {
		input := validEntryInput(models.PrivacyFriendsOnly)
		input["title"] = "final title"
		rec := doRequest(t, router, http.MethodPut, path, input, authCookie(t, owner.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[EntryResponse](t, rec)
		assert.Equal(t, "final title", resp.Title)
		assert.Equal(t, models.PrivacyFriendsOnly, resp.PrivacyLevel)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, path, validEntryInput(models.PrivacyPublic), authCookie(t, other.ID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing entry is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/api/v1/entries/99999", validEntryInput(models.PrivacyPublic), authCookie(t, owner.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteEntryCascades(t *testing.T) {
	router := setupRouter(t)
	owner := createUser(t, "owner")
	fan := createUser(t, "fan")
	entry := createEntry(t, owner, "doomed entry", models.PrivacyPublic)
	path := fmt.Sprintf("/api/v1/entries/%d", entry.ID)

	// Attach a like, a comment, a bookmark, and a hide row to the entry.
	rec := doRequest(t, router, http.MethodPost, path+"/like", nil, authCookie(t, fan.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, router, http.MethodPost, path+"/comments", map[string]any{"body": "lovely"}, authCookie(t, fan.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/albums", map[string]any{"name": "Birds"}, authCookie(t, fan.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	album := decodeBody[AlbumResponse](t, rec)
	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/albums/%d/bookmarks", album.ID),
		map[string]any{"diary_entry_id": entry.ID}, authCookie(t, fan.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/hidden-entries",
		map[string]any{"diary_entry_id": entry.ID}, authCookie(t, fan.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("non-owner cannot delete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, path, nil, authCookie(t, fan.ID))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner delete removes every referencing row", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, path, nil, authCookie(t, owner.ID))
		require.Equal(t, http.StatusOK, rec.Code)

		var likes, comments, bookmarks, hidden, notifications int64
		database.DB.Model(&models.Like{}).Where("diary_entry_id = ?", entry.ID).Count(&likes)
		database.DB.Model(&models.Comment{}).Where("diary_entry_id = ?", entry.ID).Count(&comments)
		database.DB.Model(&models.Bookmark{}).Where("diary_entry_id = ?", entry.ID).Count(&bookmarks)
		database.DB.Model(&models.HiddenEntry{}).Where("diary_entry_id = ?", entry.ID).Count(&hidden)
		database.DB.Model(&models.Notification{}).Where("diary_entry_id = ?", entry.ID).Count(&notifications)

		assert.Zero(t, likes)
		assert.Zero(t, comments)
		assert.Zero(t, bookmarks)
		assert.Zero(t, hidden)
		assert.Zero(t, notifications)

		rec = doRequest(t, router, http.MethodGet, path, nil, authCookie(t, owner.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
