package handler

import (
	"naturelog/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler under the given group. Read-only entry
// routes allow anonymous viewers; everything mutating requires identity.
func RegisterRoutes(apiV1 *gin.RouterGroup) {
	// Auth routes
	authRoutes := apiV1.Group("/auth")
	{
		authRoutes.POST("/register", RegisterUser)
		authRoutes.POST("/login", LoginUser)
		authRoutes.POST("/logout", LogoutUser)
	}

	// User routes
	userRoutes := apiV1.Group("/users")
	{
		userRoutes.GET("/me", auth.AuthMiddleware(), GetMe)
		userRoutes.PUT("/me", auth.AuthMiddleware(), UpdateMe)
		userRoutes.GET("/:id", auth.OptionalAuthMiddleware(), GetUserByID)
		userRoutes.GET("/:id/entries", auth.OptionalAuthMiddleware(), GetUserEntries)

		// Friendship routes
		userRoutes.POST("/:id/friend-request", auth.AuthMiddleware(), SendFriendRequest)
		userRoutes.POST("/:id/friend-request/accept", auth.AuthMiddleware(), AcceptFriendRequest)
		userRoutes.POST("/:id/friend-request/decline", auth.AuthMiddleware(), DeclineFriendRequest)
	}

	friendRoutes := apiV1.Group("")
	friendRoutes.Use(auth.AuthMiddleware())
	{
		friendRoutes.GET("/friends", GetFriends)
		friendRoutes.DELETE("/friends/:id", RemoveFriend)
		friendRoutes.GET("/friend-requests", GetFriendRequests)
	}

	// Entry routes
	entryRoutes := apiV1.Group("/entries")
	{
		entryRoutes.GET("", auth.OptionalAuthMiddleware(), GetEntries)
		entryRoutes.GET("/mine", auth.AuthMiddleware(), GetMyEntries)
		entryRoutes.GET("/:id", auth.OptionalAuthMiddleware(), GetEntry)
		entryRoutes.GET("/:id/comments", auth.OptionalAuthMiddleware(), GetComments)

		entryRoutes.POST("", auth.AuthMiddleware(), CreateEntry)
		entryRoutes.PUT("/:id", auth.AuthMiddleware(), UpdateEntry)
		entryRoutes.DELETE("/:id", auth.AuthMiddleware(), DeleteEntry)
		entryRoutes.POST("/:id/like", auth.AuthMiddleware(), ToggleLike)
		entryRoutes.POST("/:id/comments", auth.AuthMiddleware(), CreateComment)
	}

	apiV1.DELETE("/comments/:id", auth.AuthMiddleware(), DeleteComment)

	// Moderation routes (viewer-local hide lists)
	hiddenRoutes := apiV1.Group("")
	hiddenRoutes.Use(auth.AuthMiddleware())
	{
		hiddenRoutes.POST("/hidden-entries", HideEntry)
		hiddenRoutes.GET("/hidden-entries", GetHiddenEntries)
		hiddenRoutes.DELETE("/hidden-entries/:entryID", UnhideEntry)
		hiddenRoutes.POST("/hidden-users", HideUser)
		hiddenRoutes.GET("/hidden-users", GetHiddenUsers)
		hiddenRoutes.DELETE("/hidden-users/:userID", UnhideUser)
	}

	// Bookmark album routes
	albumRoutes := apiV1.Group("/albums")
	albumRoutes.Use(auth.AuthMiddleware())
	{
		albumRoutes.POST("", CreateAlbum)
		albumRoutes.GET("", GetAlbums)
		albumRoutes.PUT("/:id", UpdateAlbum)
		albumRoutes.DELETE("/:id", DeleteAlbum)
		albumRoutes.POST("/:id/bookmarks", AddBookmark)
		albumRoutes.GET("/:id/bookmarks", GetAlbumBookmarks)
		albumRoutes.DELETE("/:id/bookmarks/:entryID", RemoveBookmark)
	}

	// Notification routes
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(auth.AuthMiddleware())
	{
		notificationRoutes.GET("", GetNotifications)
		notificationRoutes.POST("/read", MarkNotificationsRead)
		notificationRoutes.GET("/stream", StreamNotifications)
	}
}
