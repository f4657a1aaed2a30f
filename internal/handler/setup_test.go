package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"naturelog/backend/internal/auth"
	"naturelog/backend/internal/config"
	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"
	"naturelog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupRouter wires the full route table against a fresh in-memory database.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"))
	return router
}

func createUser(t *testing.T, nickname string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createEntry(t *testing.T, owner models.User, title string, privacy models.PrivacyLevel) models.DiaryEntry {
	t.Helper()

	entry := models.DiaryEntry{
		UserID:       owner.ID,
		Title:        title,
		Description:  "seen near the old oak",
		Latitude:     35.6895,
		Longitude:    139.6917,
		TakenAt:      time.Date(2024, 5, 12, 8, 30, 0, 0, time.UTC),
		Category:     "bird",
		PrivacyLevel: privacy,
	}
	require.NoError(t, database.DB.Create(&entry).Error)
	return entry
}

func makeFriends(t *testing.T, requester, addressee models.User) {
	t.Helper()
	friendship := models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      models.StatusAccepted,
	}
	require.NoError(t, database.DB.Create(&friendship).Error)
}

func authCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	token, err := jwt.GenerateToken(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// doRequest performs a JSON request; cookie may be nil for anonymous calls.
func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func validEntryInput(privacy models.PrivacyLevel) map[string]any {
	return map[string]any{
		"title":         "Heron at the riverbank",
		"description":   "standing perfectly still",
		"latitude":      35.01,
		"longitude":     135.76,
		"taken_at":      "2024-06-01T07:45:00Z",
		"category":      "bird",
		"privacy_level": string(privacy),
	}
}
