package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pricing models a listing can advertise.
const (
	PricingFixed  = "fixed"
	PricingHourly = "hourly"
	PricingQuote  = "quote"
)

// Service is a provider's listing in the marketplace.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProviderID  primitive.ObjectID `bson:"providerId" json:"providerId"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	PricingType string             `bson:"pricingType" json:"pricingType"`
	Price       float64            `bson:"price" json:"price"`
	Currency    string             `bson:"currency" json:"currency"`
	Tags        []string           `bson:"tags" json:"tags"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted" json:"-"`
	DeletedAt   *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	DeletedBy   primitive.ObjectID `bson:"deletedBy,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateServiceRequest struct {
	CategoryID  string   `json:"categoryId" binding:"required"`
	Title       string   `json:"title" binding:"required,min=5,max=120"`
	Description string   `json:"description" binding:"required,min=20,max=5000"`
	PricingType string   `json:"pricingType" binding:"required,oneof=fixed hourly quote"`
	Price       float64  `json:"price" binding:"omitempty,gte=0"`
	Currency    string   `json:"currency" binding:"omitempty,len=3"`
	Tags        []string `json:"tags" binding:"omitempty,max=10,dive,min=2,max=30"`
}

type UpdateServiceRequest struct {
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title" binding:"omitempty,min=5,max=120"`
	Description string   `json:"description" binding:"omitempty,min=20,max=5000"`
	PricingType string   `json:"pricingType" binding:"omitempty,oneof=fixed hourly quote"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Currency    string   `json:"currency" binding:"omitempty,len=3"`
	Tags        []string `json:"tags" binding:"omitempty,max=10,dive,min=2,max=30"`
	IsActive    *bool    `json:"isActive"`
}

type ServiceListQuery struct {
	CategoryID string `form:"categoryId"`
	ProviderID string `form:"providerId"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
}
