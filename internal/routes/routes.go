package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/features/categories"
	"github.com/taskhive/taskhive-api/internal/features/media"
	"github.com/taskhive/taskhive-api/internal/features/reports"
	"github.com/taskhive/taskhive-api/internal/features/reviews"
	"github.com/taskhive/taskhive-api/internal/features/services"
	"github.com/taskhive/taskhive-api/internal/pkg/cache"
)

// Register wires every feature under /api/v1.
func Register(router *gin.Engine, db *mongo.Database, cfg *config.Config, c *cache.Cache) {
	v1 := router.Group("/api/v1")

	auth.RegisterRoutes(v1, db, cfg)
	categories.RegisterRoutes(v1, db, cfg)
	services.RegisterRoutes(v1, db, cfg)
	reviews.RegisterRoutes(v1, db, cfg, c)
	reports.RegisterRoutes(v1, db, cfg, c)
	media.RegisterRoutes(v1, db, cfg)
}
