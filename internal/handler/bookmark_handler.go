package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"
	"naturelog/backend/internal/visibility"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type AlbumInput struct {
	Name string `json:"name" binding:"required"`
}

type BookmarkInput struct {
	DiaryEntryID uint `json:"diary_entry_id" binding:"required"`
}

type AlbumResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	BookmarkCount int64     `json:"bookmark_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func newAlbumResponse(album models.BookmarkAlbum) AlbumResponse {
	var count int64
	database.DB.Model(&models.Bookmark{}).Where("album_id = ?", album.ID).Count(&count)

	return AlbumResponse{
		ID:            album.ID,
		Name:          album.Name,
		BookmarkCount: count,
		CreatedAt:     album.CreatedAt,
	}
}

// endregion

// ownAlbum loads the album and enforces ownership.
func ownAlbum(c *gin.Context, userID uint) (models.BookmarkAlbum, bool) {
	var album models.BookmarkAlbum

	albumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid album ID"})
		return album, false
	}

	if err := database.DB.First(&album, uint(albumID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Album not found"})
		return album, false
	}

	if album.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can access the album"})
		return album, false
	}

	return album, true
}

// CreateAlbum godoc
// @Summary      Create a bookmark album
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        input body AlbumInput true "Album Info"
// @Success      201 {object} AlbumResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /albums [post]
func CreateAlbum(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input AlbumInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	album := models.BookmarkAlbum{UserID: viewerID.(uint), Name: input.Name}
	if err := database.DB.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create album"})
		return
	}

	c.JSON(http.StatusCreated, newAlbumResponse(album))
}

// GetAlbums godoc
// @Summary      List the viewer's albums
// @Tags         bookmarks
// @Produce      json
// @Success      200 {array} AlbumResponse
// @Failure      401 {object} ErrorResponse
// @Router       /albums [get]
func GetAlbums(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var albums []models.BookmarkAlbum
	if err := database.DB.Where("user_id = ?", viewerID).Order("created_at ASC").Find(&albums).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve albums"})
		return
	}

	responses := make([]AlbumResponse, 0, len(albums))
	for _, album := range albums {
		responses = append(responses, newAlbumResponse(album))
	}

	c.JSON(http.StatusOK, responses)
}

// UpdateAlbum godoc
// @Summary      Rename an album
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path  int        true  "Album ID"
// @Param        input body  AlbumInput true  "New Album Info"
// @Success      200 {object} AlbumResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /albums/{id} [put]
func UpdateAlbum(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	album, ok := ownAlbum(c, viewerID.(uint))
	if !ok {
		return
	}

	var input AlbumInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Model(&album).Update("name", input.Name).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update album"})
		return
	}

	c.JSON(http.StatusOK, newAlbumResponse(album))
}

// DeleteAlbum godoc
// @Summary      Delete an album
// @Description  Deletes the album and every bookmark in it, in one transaction.
// @Tags         bookmarks
// @Produce      json
// @Param        id path int true "Album ID"
// @Success      200 {object} map[string]string "{"message": "Album deleted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /albums/{id} [delete]
func DeleteAlbum(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	album, ok := ownAlbum(c, viewerID.(uint))
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", album.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&album).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete album"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Album deleted"})
}

// AddBookmark godoc
// @Summary      Bookmark an entry into an album
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path  int           true  "Album ID"
// @Param        input body  BookmarkInput true  "Entry to bookmark"
// @Success      201 {object} map[string]string "{"message": "Entry bookmarked"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Album or entry not found"
// @Failure      409 {object} ErrorResponse "Entry already bookmarked in this album"
// @Router       /albums/{id}/bookmarks [post]
func AddBookmark(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	album, ok := ownAlbum(c, userID)
	if !ok {
		return
	}

	var input BookmarkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The entry must exist and be readable by the bookmarking user.
	if _, err := visibility.New(database.DB).GetEntry(input.DiaryEntryID, &userID); err != nil {
		respondVisibilityError(c, err)
		return
	}

	var existing models.Bookmark
	err := database.DB.
		Where("album_id = ? AND diary_entry_id = ?", album.ID, input.DiaryEntryID).
		First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up bookmark"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Entry already bookmarked in this album"})
		return
	}

	bookmark := models.Bookmark{AlbumID: album.ID, DiaryEntryID: input.DiaryEntryID}
	if err := database.DB.Create(&bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bookmark entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Entry bookmarked"})
}

// GetAlbumBookmarks godoc
// @Summary      List the entries bookmarked in an album
// @Description  Returns the album's entries, re-checked against current visibility; entries made private since bookmarking are skipped.
// @Tags         bookmarks
// @Produce      json
// @Param        id path int true "Album ID"
// @Success      200 {array} EntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /albums/{id}/bookmarks [get]
func GetAlbumBookmarks(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	album, ok := ownAlbum(c, userID)
	if !ok {
		return
	}

	var bookmarks []models.Bookmark
	err := database.DB.
		Where("album_id = ?", album.ID).
		Order("created_at DESC").
		Preload("Entry").
		Find(&bookmarks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookmarks"})
		return
	}

	resolver := visibility.New(database.DB)
	responses := make([]EntryResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		if err := resolver.CanView(b.Entry, &userID); err != nil {
			continue
		}
		responses = append(responses, newEntryResponse(b.Entry, &userID))
	}

	c.JSON(http.StatusOK, responses)
}

// RemoveBookmark godoc
// @Summary      Remove a bookmark from an album
// @Tags         bookmarks
// @Produce      json
// @Param        id      path int true "Album ID"
// @Param        entryID path int true "Entry ID"
// @Success      200 {object} map[string]string "{"message": "Bookmark removed"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /albums/{id}/bookmarks/{entryID} [delete]
func RemoveBookmark(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	album, ok := ownAlbum(c, viewerID.(uint))
	if !ok {
		return
	}

	entryID, err := strconv.ParseUint(c.Param("entryID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	result := database.DB.
		Where("album_id = ? AND diary_entry_id = ?", album.ID, uint(entryID)).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark removed"})
}
