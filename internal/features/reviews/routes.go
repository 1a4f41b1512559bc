package reviews

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/pkg/cache"
	"github.com/taskhive/taskhive-api/internal/pkg/ratelimit"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, c *cache.Cache) {
	repo := NewRepository(db)
	authRepo := auth.NewRepository(db)
	handler := NewHandler(repo, authRepo, c)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)
	optionalAuth := auth.OptionalAuthMiddleware(authRepo, cfg)
	createLimiter := ratelimit.New(10, time.Hour)
	createLimiter.StartCleanup(10 * time.Minute)

	reviews := router.Group("/reviews")
	{
		reviews.GET("", optionalAuth, handler.ListReviews)
		reviews.GET("/:id", optionalAuth, handler.GetReview)

		reviews.POST("", authMiddleware, ratelimit.UserBasedMiddleware(createLimiter), handler.CreateReview)
		reviews.PATCH("/:id", authMiddleware, handler.UpdateReview)
		reviews.DELETE("/:id", authMiddleware, handler.DeleteReview)

		reviews.POST("/:id/helpful", authMiddleware, handler.MarkHelpful)
		reviews.DELETE("/:id/helpful", authMiddleware, handler.RemoveHelpful)
		reviews.POST("/:id/report", authMiddleware, handler.ReportReview)
		reviews.POST("/:id/responses", authMiddleware, handler.AddResponse)

		reviews.POST("/:id/moderate", authMiddleware, auth.AdminOnly(), handler.ModerateReview)
	}

	router.GET("/users/:id/rating", handler.GetUserRating)
	router.GET("/services/:id/rating", handler.GetServiceRating)
}
