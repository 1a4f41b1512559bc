package services

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/features/categories"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	categoryRepo := categories.NewRepository(db)
	authRepo := auth.NewRepository(db)
	handler := NewHandler(repo, categoryRepo)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	services := router.Group("/services")
	{
		services.GET("", handler.ListServices)
		services.GET("/:id", handler.GetService)

		services.POST("", authMiddleware, handler.CreateService)
		services.PATCH("/:id", authMiddleware, handler.UpdateService)
		services.DELETE("/:id", authMiddleware, handler.DeleteService)
	}
}
