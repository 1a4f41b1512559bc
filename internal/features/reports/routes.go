package reports

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/features/reviews"
	"github.com/taskhive/taskhive-api/internal/features/services"
	"github.com/taskhive/taskhive-api/internal/pkg/cache"
	"github.com/taskhive/taskhive-api/internal/pkg/ratelimit"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, c *cache.Cache) {
	RegisterValidations()

	repo := NewRepository(db)
	authRepo := auth.NewRepository(db)
	reviewRepo := reviews.NewRepository(db)
	serviceRepo := services.NewRepository(db)
	handler := NewHandler(repo, authRepo, reviewRepo, serviceRepo, c)
	authMiddleware := auth.NewAuthMiddleware(authRepo, cfg)
	createLimiter := ratelimit.New(20, time.Hour)
	createLimiter.StartCleanup(10 * time.Minute)

	reports := router.Group("/reports", authMiddleware)
	{
		reports.POST("", ratelimit.UserBasedMiddleware(createLimiter), handler.CreateReport)
		reports.GET("/mine", handler.GetMyReports)

		// Moderation queue. Static paths must come before /:id.
		admin := auth.AdminOnly()
		reports.GET("", admin, handler.ListReports)
		reports.GET("/unassigned", admin, handler.GetUnassigned)
		reports.GET("/overdue", admin, handler.GetOverdue)
		reports.GET("/analytics", admin, handler.GetAnalytics)

		reports.GET("/:id", handler.GetReport)
		reports.DELETE("/:id", handler.DeleteReport)

		reports.POST("/:id/assign", admin, handler.AssignInvestigator)
		reports.POST("/:id/escalate", admin, handler.Escalate)
		reports.POST("/:id/resolve", admin, handler.Resolve)
		reports.POST("/:id/notes", admin, handler.AddInternalNote)
		reports.POST("/:id/related", admin, handler.RelateReports)
		reports.PATCH("/:id/status", admin, handler.UpdateStatus)
	}
}
