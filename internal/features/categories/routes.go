package categories

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	authRepo := auth.NewRepository(db)
	handler := NewHandler(repo)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	categories := router.Group("/categories")
	{
		categories.GET("", handler.ListCategories)
		categories.GET("/:id", handler.GetCategory)

		// Admin management
		categories.POST("", authMiddleware, auth.AdminOnly(), handler.CreateCategory)
		categories.PATCH("/:id", authMiddleware, auth.AdminOnly(), handler.UpdateCategory)
		categories.DELETE("/:id", authMiddleware, auth.AdminOnly(), handler.DeleteCategory)
	}
}
