package categories

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups service listings for browsing.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	IconURL     string             `bson:"iconUrl" json:"iconUrl"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted" json:"-"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	DeletedBy   primitive.ObjectID `bson:"deletedBy,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=60"`
	Description string `json:"description" binding:"omitempty,max=500"`
	IconURL     string `json:"iconUrl" binding:"omitempty,url"`
	SortOrder   int    `json:"sortOrder"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=60"`
	Description string `json:"description" binding:"omitempty,max=500"`
	IconURL     string `json:"iconUrl" binding:"omitempty,url"`
	SortOrder   *int   `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
}
