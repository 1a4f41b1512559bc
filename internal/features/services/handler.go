package services

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/features/categories"
	"github.com/taskhive/taskhive-api/internal/pkg/logger"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

type Handler struct {
	repo         *Repository
	categoryRepo *categories.Repository
}

func NewHandler(repo *Repository, categoryRepo *categories.Repository) *Handler {
	return &Handler{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// CreateService godoc
// @Summary Create a service listing
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceRequest true "Listing"
// @Success 201 {object} response.APIResponse{data=Service}
// @Failure 400 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /services [post]
func (h *Handler) CreateService(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	if user.Role != auth.RoleProvider && !user.IsAdmin() {
		response.Forbidden(c, "Only providers can create listings", "PROVIDER_ONLY")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		response.BadRequest(c, "Invalid category ID format", "INVALID_ID")
		return
	}

	if _, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID, false); err != nil {
		response.BadRequest(c, "Category does not exist", "UNKNOWN_CATEGORY")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	service := &Service{
		ProviderID:  user.ID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: req.Description,
		PricingType: req.PricingType,
		Price:       req.Price,
		Currency:    currency,
		Tags:        req.Tags,
	}

	if err := h.repo.Create(c.Request.Context(), service); err != nil {
		logger.Error("service create failed: %v", err)
		response.DatabaseError(c, "Failed to create listing")
		return
	}

	response.Created(c, service)
}

// GetService godoc
// @Summary Get a service listing
// @Tags services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.APIResponse{data=Service}
// @Failure 404 {object} response.APIResponse
// @Router /services/{id} [get]
func (h *Handler) GetService(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service ID format", "INVALID_ID")
		return
	}

	service, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Service not found", "SERVICE_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to fetch listing")
		return
	}

	response.Success(c, service)
}

// ListServices godoc
// @Summary List service listings
// @Description Filter by category/provider, optionally full-text search
// @Tags services
// @Produce json
// @Param categoryId query string false "Category ID"
// @Param providerId query string false "Provider ID"
// @Param search query string false "Full-text search"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData}
// @Router /services [get]
func (h *Handler) ListServices(c *gin.Context) {
	var query ServiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	listings, total, err := h.repo.List(c.Request.Context(), &query)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Invalid filter ID format", "INVALID_ID")
			return
		}
		logger.Error("service list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch listings")
		return
	}

	response.Paginated(c, listings, total, query.Limit, query.Page)
}

// UpdateService godoc
// @Summary Update a service listing
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body UpdateServiceRequest true "Fields"
// @Success 200 {object} response.APIResponse{data=Service}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /services/{id} [patch]
func (h *Handler) UpdateService(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service ID format", "INVALID_ID")
		return
	}

	service, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Service not found", "SERVICE_NOT_FOUND")
		return
	}

	if service.ProviderID != user.ID && !user.IsAdmin() {
		response.Forbidden(c, "Only the listing owner can update it", "NOT_OWNER")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error(), "VALIDATION_FAILED")
		return
	}

	updates := bson.M{}
	if req.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
		if err != nil {
			response.BadRequest(c, "Invalid category ID format", "INVALID_ID")
			return
		}
		if _, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID, false); err != nil {
			response.BadRequest(c, "Category does not exist", "UNKNOWN_CATEGORY")
			return
		}
		updates["categoryId"] = categoryID
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.PricingType != "" {
		updates["pricingType"] = req.PricingType
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}

	if len(updates) == 0 {
		response.BadRequest(c, "No fields to update", "EMPTY_UPDATE")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, updates); err != nil {
		logger.Error("service update failed: %v", err)
		response.DatabaseError(c, "Failed to update listing")
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch listing")
		return
	}

	response.Success(c, updated)
}

// DeleteService godoc
// @Summary Delete a service listing (soft)
// @Tags services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /services/{id} [delete]
func (h *Handler) DeleteService(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service ID format", "INVALID_ID")
		return
	}

	service, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.NotFound(c, "Service not found", "SERVICE_NOT_FOUND")
		return
	}

	if service.ProviderID != user.ID && !user.IsAdmin() {
		response.Forbidden(c, "Only the listing owner can delete it", "NOT_OWNER")
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), id, user.ID); err != nil {
		logger.Error("service delete failed: %v", err)
		response.DatabaseError(c, "Failed to delete listing")
		return
	}

	response.Success(c, nil, "Listing deleted")
}
