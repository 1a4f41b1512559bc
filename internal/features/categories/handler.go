package categories

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/features/auth"
	"github.com/taskhive/taskhive-api/internal/pkg/logger"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListCategories godoc
// @Summary List active categories
// @Tags categories
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]Category}
// @Router /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		logger.Error("category list failed: %v", err)
		response.DatabaseError(c, "Failed to fetch categories")
		return
	}

	response.Success(c, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.APIResponse{data=Category}
// @Failure 404 {object} response.APIResponse
// @Router /categories/{id} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID format", "INVALID_ID")
		return
	}

	category, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to fetch category")
		return
	}

	response.Success(c, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} response.APIResponse{data=Category}
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	category := &Category{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
		SortOrder:   req.SortOrder,
	}

	if err := h.repo.Create(c.Request.Context(), category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "A category with this name already exists", "DUPLICATE_CATEGORY")
			return
		}
		logger.Error("category create failed: %v", err)
		response.DatabaseError(c, "Failed to create category")
		return
	}

	response.Created(c, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields"
// @Success 200 {object} response.APIResponse{data=Category}
// @Failure 404 {object} response.APIResponse
// @Router /categories/{id} [patch]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID format", "INVALID_ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	updates := bson.M{}
	if req.Name != "" {
		updates["name"] = req.Name
		updates["slug"] = Slugify(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.IconURL != "" {
		updates["iconUrl"] = req.IconURL
	}
	if req.SortOrder != nil {
		updates["sortOrder"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["isActive"] = *req.IsActive
	}

	if len(updates) == 0 {
		response.BadRequest(c, "No fields to update", "EMPTY_UPDATE")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, updates); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Category not found", "CATEGORY_NOT_FOUND")
		case errors.Is(err, apperrors.ErrDuplicate):
			response.Conflict(c, "A category with this name already exists", "DUPLICATE_CATEGORY")
		default:
			logger.Error("category update failed: %v", err)
			response.DatabaseError(c, "Failed to update category")
		}
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), id, false)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch category")
		return
	}

	response.Success(c, updated)
}

// DeleteCategory godoc
// @Summary Delete a category (soft)
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID format", "INVALID_ID")
		return
	}

	actor := auth.CurrentUser(c)
	if actor == nil {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), id, actor.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		logger.Error("category delete failed: %v", err)
		response.DatabaseError(c, "Failed to delete category")
		return
	}

	response.Success(c, nil, "Category deleted")
}
