package media

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/pkg/cloudinary"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "taskhive")
	if err != nil {
		// Upload endpoints respond with a configuration error instead.
		log.Printf("Cloudinary unavailable, uploads disabled: %v", err)
	}

	authRepo := auth.NewRepository(db)
	handler := NewHandler(cld)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)

	media := router.Group("/media", authMiddleware)
	{
		media.POST("/images", handler.UploadImage)
		media.POST("/evidence", handler.UploadEvidence)
	}
}
