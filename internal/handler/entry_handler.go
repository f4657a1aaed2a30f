package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"naturelog/backend/internal/auth"
	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"
	"naturelog/backend/internal/visibility"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type EntryInput struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	ImageURL     string              `json:"image_url"`
	Latitude     *float64            `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64            `json:"longitude" binding:"required,gte=-180,lte=180"`
	TakenAt      time.Time           `json:"taken_at" binding:"required"`
	Category     string              `json:"category"`
	PrivacyLevel models.PrivacyLevel `json:"privacy_level" binding:"required,oneof=private friends_only public public_anonymous"`
}

type EntryResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	ImageURL     string              `json:"image_url,omitempty"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	TakenAt      time.Time           `json:"taken_at"`
	Category     string              `json:"category,omitempty"`
	PrivacyLevel models.PrivacyLevel `json:"privacy_level"`
	CreatedAt    time.Time           `json:"created_at"`

	// Author is omitted for public_anonymous entries, except towards the
	// owner themselves.
	Author *PublicUserResponse `json:"author,omitempty"`

	LikeCount    int64 `json:"like_count"`
	LikedByMe    bool  `json:"liked_by_me"`
	CommentCount int64 `json:"comment_count"`
}

// PaginatedEntryResponse defines the structure for a paginated list of entries.
type PaginatedEntryResponse struct {
	Data []EntryResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}

func newEntryResponse(entry models.DiaryEntry, viewerID *uint) EntryResponse {
	var likeCount, commentCount int64
	database.DB.Model(&models.Like{}).Where("diary_entry_id = ?", entry.ID).Count(&likeCount)
	database.DB.Model(&models.Comment{}).Where("diary_entry_id = ?", entry.ID).Count(&commentCount)

	likedByMe := false
	if viewerID != nil {
		var c int64
		database.DB.Model(&models.Like{}).
			Where("user_id = ? AND diary_entry_id = ?", *viewerID, entry.ID).Count(&c)
		likedByMe = c > 0
	}

	resp := EntryResponse{
		ID:           entry.ID,
		Title:        entry.Title,
		Description:  entry.Description,
		ImageURL:     entry.ImageURL,
		Latitude:     entry.Latitude,
		Longitude:    entry.Longitude,
		TakenAt:      entry.TakenAt,
		Category:     entry.Category,
		PrivacyLevel: entry.PrivacyLevel,
		CreatedAt:    entry.CreatedAt,
		LikeCount:    likeCount,
		LikedByMe:    likedByMe,
		CommentCount: commentCount,
	}

	ownViewer := viewerID != nil && *viewerID == entry.UserID
	if !entry.PrivacyLevel.Anonymous() || ownViewer {
		var author models.User
		if err := database.DB.First(&author, entry.UserID).Error; err == nil {
			pub := buildPublicUserResponse(author)
			resp.Author = &pub
		}
	}

	return resp
}

// respondVisibilityError translates resolver errors to HTTP statuses.
func respondVisibilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, visibility.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	case errors.Is(err, visibility.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this entry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve entry"})
	}
}

// endregion

// region --- Entry Handlers ---

// CreateEntry godoc
// @Summary      Create a diary entry
// @Description  Creates a new geotagged diary entry owned by the authenticated user.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        input body EntryInput true "Entry Info"
// @Success      201  {object}  EntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /entries [post]
func CreateEntry(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.DiaryEntry{
		UserID:       viewerID.(uint),
		Title:        input.Title,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		TakenAt:      input.TakenAt,
		Category:     input.Category,
		PrivacyLevel: input.PrivacyLevel,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, newEntryResponse(entry, auth.ViewerID(c)))
}

// GetEntries godoc
// @Summary      List visible diary entries
// @Description  Returns entries visible to the viewer (anonymous viewers see only public entries), newest first, with optional category, text, and bounding-box filters.
// @Tags         entries
// @Produce      json
// @Param        q        query  string  false  "Substring match on title or description"
// @Param        category query  string  false  "Filter by category"
// @Param        min_lat  query  number  false  "Bounding box south edge"
// @Param        max_lat  query  number  false  "Bounding box north edge"
// @Param        min_lng  query  number  false  "Bounding box west edge"
// @Param        max_lng  query  number  false  "Bounding box east edge"
// @Param        page     query  int     false  "Page number" default(1)
// @Param        limit    query  int     false  "Items per page" default(20)
// @Success      200  {object}  PaginatedEntryResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /entries [get]
func GetEntries(c *gin.Context) {
	viewerID := auth.ViewerID(c)

	scope, err := visibility.New(database.DB).Scope(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve visibility"})
		return
	}

	query := database.DB.Model(&models.DiaryEntry{}).Scopes(scope)

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query, ok := applyBoundingBox(c, query)
	if !ok {
		return
	}

	listEntries(c, query, viewerID)
}

// GetMyEntries godoc
// @Summary      List the authenticated user's own entries
// @Description  Returns all of the viewer's entries regardless of privacy level, newest first.
// @Tags         entries
// @Produce      json
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedEntryResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /entries/mine [get]
func GetMyEntries(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	query := database.DB.Model(&models.DiaryEntry{}).Where("user_id = ?", viewerID)
	listEntries(c, query, auth.ViewerID(c))
}

// GetUserEntries godoc
// @Summary      List a user's entries
// @Description  Returns the given user's entries that are visible to the viewer.
// @Tags         entries
// @Produce      json
// @Param        id    path   int  true   "User ID"
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedEntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/entries [get]
func GetUserEntries(c *gin.Context) {
	viewerID := auth.ViewerID(c)

	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	scope, err := visibility.New(database.DB).Scope(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve visibility"})
		return
	}

	query := database.DB.Model(&models.DiaryEntry{}).
		Scopes(scope).
		Where("user_id = ?", uint(targetUserID))
	listEntries(c, query, viewerID)
}

// GetEntry godoc
// @Summary      Get a single diary entry
// @Description  Returns one entry if the viewer may read it. Missing entries are 404 regardless of privacy; private entries are 403 for non-owners.
// @Tags         entries
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object}  EntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /entries/{id} [get]
func GetEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	viewerID := auth.ViewerID(c)
	entry, err := visibility.New(database.DB).GetEntry(uint(entryID), viewerID)
	if err != nil {
		respondVisibilityError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(entry, viewerID))
}

// UpdateEntry godoc
// @Summary      Update a diary entry
// @Description  Updates an entry. Only the owner may update.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        id    path  int        true  "Entry ID"
// @Param        input body  EntryInput true  "New Entry Info"
// @Success      200  {object}  EntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Only the owner can update the entry"
// @Failure      404  {object}  ErrorResponse
// @Router       /entries/{id} [put]
func UpdateEntry(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var entry models.DiaryEntry
	if err := database.DB.First(&entry, uint(entryID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if entry.UserID != viewerID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can update the entry"})
		return
	}

	var input EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry.Title = input.Title
	entry.Description = input.Description
	entry.ImageURL = input.ImageURL
	entry.Latitude = *input.Latitude
	entry.Longitude = *input.Longitude
	entry.TakenAt = input.TakenAt
	entry.Category = input.Category
	entry.PrivacyLevel = input.PrivacyLevel

	if err := database.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(entry, auth.ViewerID(c)))
}

// DeleteEntry godoc
// @Summary      Delete a diary entry
// @Description  Deletes an entry together with its likes, comments, bookmarks, hide rows, and notifications. Only the owner may delete.
// @Tags         entries
// @Produce      json
// @Param        id path int true "Entry ID"
// @Success      200  {object}  map[string]string "{"message": "Entry deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /entries/{id} [delete]
func DeleteEntry(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var entry models.DiaryEntry
	if err := database.DB.First(&entry, uint(entryID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if entry.UserID != viewerID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete the entry"})
		return
	}

	// One consistent cascade policy: everything referencing the entry goes
	// in the same transaction as the entry itself.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.HiddenEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_entry_id = ?", entry.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entry).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// endregion

// region --- Helpers ---

// applyBoundingBox adds map-viewport filters when the query parameters are
// present. Malformed coordinates are a 400.
func applyBoundingBox(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	bounds := []struct {
		param  string
		column string
		op     string
	}{
		{"min_lat", "latitude", ">="},
		{"max_lat", "latitude", "<="},
		{"min_lng", "longitude", ">="},
		{"max_lng", "longitude", "<="},
	}

	for _, b := range bounds {
		raw := c.Query(b.param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + b.param})
			return nil, false
		}
		query = query.Where(b.column+" "+b.op+" ?", value)
	}

	return query, true
}

// listEntries runs the prepared query with pagination and renders the page.
func listEntries(c *gin.Context, query *gorm.DB, viewerID *uint) {
	page, limit, offset := pageParams(c)

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count entries"})
		return
	}

	var entries []models.DiaryEntry
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries"})
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, newEntryResponse(entry, viewerID))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// endregion
