package auth

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
)

// RegisterRoutes registers the auth routes and initializes dependencies
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	firebaseClient, err := InitFirebase(cfg)
	if err != nil {
		// Google sign-in still works via raw ID token validation.
		log.Printf("Firebase unavailable, falling back to idtoken validation: %v", err)
	}

	repo := NewRepository(db)
	handler := NewHandler(repo, firebaseClient, cfg)
	authMiddleware := NewAuthMiddleware(repo, cfg)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/google", handler.GoogleLogin)
		authGroup.GET("/me", authMiddleware, handler.GetMe)
		authGroup.PATCH("/me", authMiddleware, handler.UpdateProfile)
		authGroup.DELETE("/me", authMiddleware, handler.DeleteAccount)
	}

	users := router.Group("/users")
	{
		users.GET("/:id", handler.GetPublicProfile)
	}
}
