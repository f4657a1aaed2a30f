package auth

import (
	"fmt"
	"net/http"
	"strings"

	"naturelog/backend/internal/config"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// CookieName is the single cookie every endpoint reads the token from.
const CookieName = "naturelog_token"

// cookieMaxAge matches the 7-day token expiry.
const cookieMaxAge = 7 * 24 * 60 * 60

// SetTokenCookie attaches the signed token as an HTTP-only cookie.
func SetTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, cookieMaxAge, "/", "", config.AppConfig.CookieSecure, true)
}

// ClearTokenCookie expires the token cookie.
func ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", config.AppConfig.CookieSecure, true)
}

// AuthMiddleware creates a gin middleware that requires a valid token and
// sets "userID" in the context. Used on every mutating route.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware inspects for a token and sets the userID if present
// and valid, but does not fail if the token is missing or invalid. Read-only
// entry routes use it so anonymous viewers fall through to the public-only
// visibility rules.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userIDFromRequest(c); ok {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

// ViewerID returns the authenticated user id, or nil for anonymous viewers.
func ViewerID(c *gin.Context) *uint {
	v, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id := v.(uint)
	return &id
}

// userIDFromRequest extracts and verifies the token from the cookie, falling
// back to an Authorization Bearer header.
func userIDFromRequest(c *gin.Context) (uint, bool) {
	tokenString, err := c.Cookie(CookieName)
	if err != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return 0, false
		}
		tokenString = parts[1]
	}

	token, err := gojwt.Parse(tokenString, func(token *gojwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(gojwt.MapClaims)
	if !ok {
		return 0, false
	}
	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, false
	}

	return uint(userIDFloat), true
}
