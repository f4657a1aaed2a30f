package handler

import (
	"errors"
	"net/http"
	"strconv"

	"naturelog/backend/internal/auth"
	"naturelog/backend/internal/database"
	"naturelog/backend/internal/models"
	"naturelog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Nickname string `json:"nickname" binding:"required" example:"forestwalker"`
	Email    string `json:"email" binding:"required,email" example:"walker@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"forestwalker"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	Nickname string `json:"nickname" binding:"required"`
	IconURL  string `json:"icon_url"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Nickname string `json:"nickname" example:"forestwalker"`
	IconURL  string `json:"icon_url,omitempty"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID           uint   `json:"id" example:"1"`
	Nickname     string `json:"nickname" example:"forestwalker"`
	Email        string `json:"email" example:"walker@example.com"`
	IconURL      string `json:"icon_url,omitempty"`
	FriendsCount int64  `json:"friends_count"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and sets the authentication cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("nickname = ? OR email = ?", input.Nickname, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Nickname or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	auth.SetTokenCookie(c, token)
	c.JSON(http.StatusCreated, buildPrivateUserResponse(user))
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with nickname/email and password, and sets the authentication cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("nickname = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	auth.SetTokenCookie(c, token)
	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// LogoutUser godoc
// @Summary      Log out
// @Description  Clears the authentication cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string "{"message": "Logged out"}"
// @Router       /auth/logout [post]
func LogoutUser(c *gin.Context) {
	auth.ClearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates the nickname and avatar URL of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body UpdateProfileInput true "Profile Info"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Nickname already taken"
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var taken models.User
	err := database.DB.Where("nickname = ? AND id <> ?", input.Nickname, user.ID).First(&taken).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up nickname"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Nickname already taken"})
		return
	}

	user.Nickname = input.Nickname
	user.IconURL = input.IconURL
	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(user))
}

// endregion

// region --- Helpers ---

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:       user.ID,
		Nickname: user.Nickname,
		IconURL:  user.IconURL,
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	var friendsCount int64
	database.DB.Model(&models.Friendship{}).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.StatusAccepted, user.ID, user.ID).
		Count(&friendsCount)

	return PrivateUserResponse{
		ID:           user.ID,
		Nickname:     user.Nickname,
		Email:        user.Email,
		IconURL:      user.IconURL,
		FriendsCount: friendsCount,
	}
}

// endregion
