package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive-api/internal/config"
	idToken "github.com/taskhive/taskhive-api/internal/pkg/jwt"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
)

// CurrentUser returns the authenticated user placed in the context by the
// auth middleware, or nil.
func CurrentUser(c *gin.Context) *User {
	val, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := val.(*User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// NewAuthMiddleware authenticates the request and loads the full user into
// the gin context. The core trusts this identity downstream.
func NewAuthMiddleware(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		claims, err := idToken.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		user, err := repo.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// 401 regardless of lookup failure kind; auth must not leak state
			response.Unauthorized(c, "User not found", "USER_NOT_FOUND")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a valid token is present but
// never rejects the request.
func OptionalAuthMiddleware(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := idToken.ValidateToken(tokenString, cfg.JWTSecret)
		if err == nil {
			if user, err := repo.GetUserByID(c.Request.Context(), claims.UserID); err == nil {
				c.Set("user", user)
				c.Set("userID", user.ID.Hex())
			}
		}
		c.Next()
	}
}

// AdminOnly gates moderation endpoints. Must be mounted after the auth
// middleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			response.Forbidden(c, "Admin access required", "ADMIN_ONLY")
			c.Abort()
			return
		}

		c.Next()
	}
}
