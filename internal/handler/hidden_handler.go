package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type HideEntryInput struct {
	DiaryEntryID uint `json:"diary_entry_id" binding:"required"`
}

type HideUserInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

type HiddenEntryResponse struct {
	DiaryEntryID uint      `json:"diary_entry_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type HiddenUserResponse struct {
	User      PublicUserResponse `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
}

// endregion

// HideEntry godoc
// @Summary      Hide an entry
// @Description  Suppresses a single entry from the viewer's own listings. This is a local preference, not a global block.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        input body HideEntryInput true "Entry to hide"
// @Success      201 {object} HiddenEntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Failure      409 {object} ErrorResponse "Entry already hidden"
// @Router       /hidden-entries [post]
func HideEntry(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var input HideEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var entry models.DiaryEntry
	if err := database.DB.First(&entry, input.DiaryEntryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	var existing models.HiddenEntry
	err := database.DB.
		Where("user_id = ? AND diary_entry_id = ?", userID, input.DiaryEntryID).
		First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up hidden entry"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Entry already hidden"})
		return
	}

	hidden := models.HiddenEntry{UserID: userID, DiaryEntryID: input.DiaryEntryID}
	if err := database.DB.Create(&hidden).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide entry"})
		return
	}

	c.JSON(http.StatusCreated, HiddenEntryResponse{
		DiaryEntryID: hidden.DiaryEntryID,
		CreatedAt:    hidden.CreatedAt,
	})
}

// GetHiddenEntries godoc
// @Summary      List hidden entries
// @Tags         moderation
// @Produce      json
// @Success      200 {array} HiddenEntryResponse
// @Failure      401 {object} ErrorResponse
// @Router       /hidden-entries [get]
func GetHiddenEntries(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var hidden []models.HiddenEntry
	if err := database.DB.Where("user_id = ?", viewerID).Order("created_at DESC").Find(&hidden).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hidden entries"})
		return
	}

	responses := make([]HiddenEntryResponse, 0, len(hidden))
	for _, h := range hidden {
		responses = append(responses, HiddenEntryResponse{
			DiaryEntryID: h.DiaryEntryID,
			CreatedAt:    h.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// UnhideEntry godoc
// @Summary      Unhide an entry
// @Tags         moderation
// @Produce      json
// @Param        entryID path int true "Entry ID"
// @Success      200 {object} map[string]string "{"message": "Entry unhidden"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /hidden-entries/{entryID} [delete]
func UnhideEntry(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	entryID, err := strconv.ParseUint(c.Param("entryID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	result := database.DB.
		Where("user_id = ? AND diary_entry_id = ?", viewerID, uint(entryID)).
		Delete(&models.HiddenEntry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unhide entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hidden entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry unhidden"})
}

// HideUser godoc
// @Summary      Hide a user
// @Description  Suppresses every entry by the given user from the viewer's listings.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        input body HideUserInput true "User to hide"
// @Success      201 {object} HiddenUserResponse
// @Failure      400 {object} ErrorResponse "Cannot hide yourself"
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      409 {object} ErrorResponse "User already hidden"
// @Router       /hidden-users [post]
func HideUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	var input HideUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot hide yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.HiddenUser
	err := database.DB.
		Where("user_id = ? AND hidden_user_id = ?", userID, input.UserID).
		First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up hidden user"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "User already hidden"})
		return
	}

	hidden := models.HiddenUser{UserID: userID, HiddenUserID: input.UserID}
	if err := database.DB.Create(&hidden).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide user"})
		return
	}

	c.JSON(http.StatusCreated, HiddenUserResponse{
		User:      buildPublicUserResponse(target),
		CreatedAt: hidden.CreatedAt,
	})
}

// GetHiddenUsers godoc
// @Summary      List hidden users
// @Tags         moderation
// @Produce      json
// @Success      200 {array} HiddenUserResponse
// @Failure      401 {object} ErrorResponse
// @Router       /hidden-users [get]
func GetHiddenUsers(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var hidden []models.HiddenUser
	err := database.DB.
		Where("user_id = ?", viewerID).
		Order("created_at DESC").
		Preload("Hidden").
		Find(&hidden).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hidden users"})
		return
	}

	responses := make([]HiddenUserResponse, 0, len(hidden))
	for _, h := range hidden {
		responses = append(responses, HiddenUserResponse{
			User:      buildPublicUserResponse(h.Hidden),
			CreatedAt: h.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// UnhideUser godoc
// @Summary      Unhide a user
// @Tags         moderation
// @Produce      json
// @Param        userID path int true "User ID"
// @Success      200 {object} map[string]string "{"message": "User unhidden"}"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /hidden-users/{userID} [delete]
func UnhideUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	hiddenUserID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result := database.DB.
		Where("user_id = ? AND hidden_user_id = ?", viewerID, uint(hiddenUserID)).
		Delete(&models.HiddenUser{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unhide user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hidden user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unhidden"})
}
