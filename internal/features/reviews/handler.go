package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/pkg/cache"
	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
	"github.com/taskhive/taskhive-api/internal/pkg/logger"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

const summaryCacheTTL = 5 * time.Minute

type Handler struct {
	repo     *Repository
	userRepo *auth.Repository
	cache    *cache.Cache
}

func NewHandler(repo *Repository, userRepo *auth.Repository, c *cache.Cache) *Handler {
	return &Handler{repo: repo, userRepo: userRepo, cache: c}
}

// CreateReview godoc
// @Summary Submit a review
// @Description One review per (reviewer, reviewee, service) tuple
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} response.APIResponse{data=Review}
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	revieweeID, err := primitive.ObjectIDFromHex(req.RevieweeID)
	if err != nil {
		response.BadRequest(c, "Invalid reviewee ID format", "INVALID_ID")
		return
	}

	if err := ValidateCreate(&req, user.ID, revieweeID); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	reviewee, err := h.userRepo.GetUserByOID(c.Request.Context(), revieweeID)
	if err != nil {
		response.BadRequest(c, "Reviewee does not exist", "UNKNOWN_REVIEWEE")
		return
	}

	review := &Review{
		ReviewerID:       user.ID,
		ReviewerRole:     user.Role,
		RevieweeID:       revieweeID,
		RevieweeRole:     reviewee.Role,
		Rating:           req.Rating,
		Comment:          req.Comment,
		Images:           req.Images,
		WouldRecommend:   req.WouldRecommend,
		IsVerified:       req.ProjectID != "",
		ModerationStatus: StatusPending,
	}

	if req.ServiceID != "" {
		serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
		if err != nil {
			response.BadRequest(c, "Invalid service ID format", "INVALID_ID")
			return
		}
		review.ServiceID = &serviceID
	}

	fileref.Stamp(review.Images, time.Now())
	ApplyQualityScore(review)

	if err := h.repo.Create(c.Request.Context(), review); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "You have already reviewed this subject", "DUPLICATE_REVIEW")
			return
		}
		logger.Error("review create failed: %v", err)
		response.DatabaseError(c, "Failed to create review")
		return
	}

	h.invalidateSummaries(c.Request.Context(), review)
	response.Created(c, review)
}

// GetReview godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.APIResponse{data=Review}
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	// Non-approved reviews are visible only to the author, the reviewee
	// and moderators.
	if review.ModerationStatus != StatusApproved && !h.canSeeUnapproved(c, review) {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.ModerationStatus == StatusApproved {
		if err := h.repo.IncrementViewCount(c.Request.Context(), id); err != nil {
			logger.Warn("view count increment failed: %v", err)
		}
	}

	response.Success(c, review)
}

// ListReviews godoc
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param revieweeId query string false "Reviewee ID"
// @Param reviewerId query string false "Reviewer ID"
// @Param serviceId query string false "Service ID"
// @Param status query string false "Moderation status (admin only)"
// @Param minRating query int false "Minimum rating"
// @Param highQuality query bool false "High quality only"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData}
// @Router /reviews [get]
func (h *Handler) ListReviews(c *gin.Context) {
	var query ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	user := auth.CurrentUser(c)
	isAdmin := user != nil && user.IsAdmin()
	listingOwn := user != nil && query.ReviewerID == user.ID.Hex()

	// Only moderators browse across moderation states. Everyone else sees
	// approved reviews, except when listing their own submissions.
	if !isAdmin && !listingOwn {
		query.ModerationStatus = StatusApproved
	}

	reviews, total, err := h.repo.List(c.Request.Context(), &query, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Invalid filter ID format", "INVALID_ID")
			return
		}
		logger.Error("review list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch reviews")
		return
	}

	response.Paginated(c, reviews, total, query.Limit, query.Page)
}

// UpdateReview godoc
// @Summary Update own review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body UpdateReviewRequest true "Fields"
// @Success 200 {object} response.APIResponse{data=Review}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id} [patch]
func (h *Handler) UpdateReview(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.ReviewerID != user.ID {
		response.Forbidden(c, "Only the review author can update it", "NOT_AUTHOR")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}
	if err := ValidateUpdate(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	updates := bson.M{}
	if req.Rating != nil {
		review.Rating = *req.Rating
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
		updates["comment"] = *req.Comment
	}
	if req.Images != nil {
		fileref.Stamp(req.Images, time.Now())
		review.Images = req.Images
		updates["images"] = req.Images
	}
	if req.WouldRecommend != nil {
		review.WouldRecommend = req.WouldRecommend
		updates["wouldRecommend"] = *req.WouldRecommend
	}

	if len(updates) == 0 {
		response.BadRequest(c, "No fields to update", "EMPTY_UPDATE")
		return
	}

	// Content changed, so the score is recomputed from the merged state.
	ApplyQualityScore(review)
	updates["qualityScore"] = review.QualityScore
	updates["isHighQuality"] = review.IsHighQuality

	if err := h.repo.Update(c.Request.Context(), id, updates); err != nil {
		logger.Error("review update failed: %v", err)
		response.DatabaseError(c, "Failed to update review")
		return
	}

	h.invalidateSummaries(c.Request.Context(), review)
	response.Success(c, review)
}

// DeleteReview godoc
// @Summary Delete own review (soft)
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.ReviewerID != user.ID && !user.IsAdmin() {
		response.Forbidden(c, "Only the review author can delete it", "NOT_AUTHOR")
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), id, user.ID); err != nil {
		logger.Error("review delete failed: %v", err)
		response.DatabaseError(c, "Failed to delete review")
		return
	}

	h.invalidateSummaries(c.Request.Context(), review)
	response.Success(c, nil, "Review deleted")
}

// MarkHelpful godoc
// @Summary Mark a review helpful
// @Description Idempotent per user
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id}/helpful [post]
func (h *Handler) MarkHelpful(c *gin.Context) {
	h.engagementOp(c, h.repo.MarkHelpful, "Marked as helpful")
}

// RemoveHelpful godoc
// @Summary Withdraw a helpful vote
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id}/helpful [delete]
func (h *Handler) RemoveHelpful(c *gin.Context) {
	h.engagementOp(c, h.repo.RemoveHelpful, "Helpful vote removed")
}

// ReportReview godoc
// @Summary Report a review
// @Description One report per user; auto-flags the review at the threshold
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id}/report [post]
func (h *Handler) ReportReview(c *gin.Context) {
	h.engagementOp(c, h.repo.ReportReview, "Review reported")
}

func (h *Handler) engagementOp(c *gin.Context, op func(context.Context, primitive.ObjectID, primitive.ObjectID) error, message string) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	if err := op(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
			return
		}
		logger.Error("review engagement op failed: %v", err)
		response.DatabaseError(c, "Operation failed")
		return
	}

	response.Success(c, nil, message)
}

// AddResponse godoc
// @Summary Respond to a review
// @Description Only the reviewee or an admin; review must be approved
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body AddResponseRequest true "Response"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id}/responses [post]
func (h *Handler) AddResponse(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if review.RevieweeID != user.ID && !user.IsAdmin() {
		response.Forbidden(c, "Only the reviewee can respond to this review", "NOT_REVIEWEE")
		return
	}
	if review.ModerationStatus != StatusApproved {
		response.BadRequest(c, "Only approved reviews accept responses", "REVIEW_NOT_APPROVED")
		return
	}

	var req AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	resp := Response{
		ResponderID:        user.ID,
		ResponderRole:      user.Role,
		Comment:            req.Comment,
		IsOfficialResponse: review.RevieweeID == user.ID,
		RespondedAt:        time.Now(),
	}

	if err := h.repo.AddResponse(c.Request.Context(), id, resp); err != nil {
		logger.Error("review response failed: %v", err)
		response.DatabaseError(c, "Failed to add response")
		return
	}

	response.Success(c, resp, "Response added")
}

// ModerateReview godoc
// @Summary Moderate a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body ModerateRequest true "Decision"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /reviews/{id}/moderate [post]
func (h *Handler) ModerateReview(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID format", "INVALID_ID")
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	review, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Review not found", "REVIEW_NOT_FOUND")
		return
	}

	if err := h.repo.Moderate(c.Request.Context(), id, user.ID, req.Status, req.Note); err != nil {
		logger.Error("review moderation failed: %v", err)
		response.DatabaseError(c, "Failed to moderate review")
		return
	}

	h.invalidateSummaries(c.Request.Context(), review)
	response.Success(c, nil, "Review moderated")
}

// GetUserRating godoc
// @Summary Rating summary for a provider
// @Tags reviews
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=RatingSummary}
// @Router /users/{id}/rating [get]
func (h *Handler) GetUserRating(c *gin.Context) {
	h.ratingSummary(c, false)
}

// GetServiceRating godoc
// @Summary Rating summary for a service listing
// @Tags reviews
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.APIResponse{data=RatingSummary}
// @Router /services/{id}/rating [get]
func (h *Handler) GetServiceRating(c *gin.Context) {
	h.ratingSummary(c, true)
}

func (h *Handler) ratingSummary(c *gin.Context, byService bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ID format", "INVALID_ID")
		return
	}

	key := summaryCacheKey(id, byService)
	var cached RatingSummary
	if err := h.cache.GetJSON(c.Request.Context(), key, &cached); err == nil {
		response.Success(c, cached)
		return
	}

	summary, err := h.repo.GetRatingSummary(c.Request.Context(), id, byService)
	if err != nil {
		logger.Error("rating summary failed: %v", err)
		response.DatabaseError(c, "Failed to compute rating summary")
		return
	}

	if err := h.cache.SetJSON(c.Request.Context(), key, summary, summaryCacheTTL); err != nil {
		logger.Warn("rating summary cache write failed: %v", err)
	}
	response.Success(c, summary)
}

func summaryCacheKey(id primitive.ObjectID, byService bool) string {
	if byService {
		return "rating:service:" + id.Hex()
	}
	return "rating:user:" + id.Hex()
}

// invalidateSummaries drops the cached aggregates the review feeds into.
func (h *Handler) invalidateSummaries(ctx context.Context, review *Review) {
	keys := []string{summaryCacheKey(review.RevieweeID, false)}
	if review.ServiceID != nil {
		keys = append(keys, summaryCacheKey(*review.ServiceID, true))
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("rating summary cache invalidation failed: %v", err)
	}
}

func (h *Handler) canSeeUnapproved(c *gin.Context, review *Review) bool {
	user := auth.CurrentUser(c)
	if user == nil {
		return false
	}
	return user.ID == review.ReviewerID || user.ID == review.RevieweeID || user.IsAdmin()
}
