package reviews

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

// Moderation lifecycle of a review.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusHidden   = "hidden"
	StatusFlagged  = "flagged"
)

// A review auto-flags once this many distinct users report it while it is
// still approved.
const FlagThreshold = 3

// HighQualityThreshold is the quality score at which a review is surfaced
// as high quality.
const HighQualityThreshold = 70

// ModerationEntry records one moderation decision.
type ModerationEntry struct {
	Status      string             `bson:"status" json:"status"`
	ModeratorID primitive.ObjectID `bson:"moderatorId" json:"moderatorId"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	ModeratedAt time.Time          `bson:"moderatedAt" json:"moderatedAt"`
}

// Response is a reply attached to a review, typically by the reviewee.
// Responses are append-only.
type Response struct {
	ResponderID        primitive.ObjectID `bson:"responderId" json:"responderId"`
	ResponderRole      string             `bson:"responderRole" json:"responderRole"`
	Comment            string             `bson:"comment" json:"comment"`
	IsOfficialResponse bool               `bson:"isOfficialResponse" json:"isOfficialResponse"`
	RespondedAt        time.Time          `bson:"respondedAt" json:"respondedAt"`
}

// Review is a rating left by one user for another, optionally tied to a
// service listing. Quality score and moderation state are system-managed.
type Review struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReviewerID   primitive.ObjectID  `bson:"reviewerId" json:"reviewerId"`
	ReviewerRole string              `bson:"reviewerRole" json:"reviewerRole"`
	RevieweeID   primitive.ObjectID  `bson:"revieweeId" json:"revieweeId"`
	RevieweeRole string              `bson:"revieweeRole" json:"revieweeRole"`
	ServiceID    *primitive.ObjectID `bson:"serviceId,omitempty" json:"serviceId,omitempty"`

	Rating         int               `bson:"rating" json:"rating"`
	Comment        string            `bson:"comment,omitempty" json:"comment,omitempty"`
	Images         []fileref.FileRef `bson:"images,omitempty" json:"images,omitempty"`
	WouldRecommend *bool             `bson:"wouldRecommend,omitempty" json:"wouldRecommend,omitempty"`

	IsVerified    bool `bson:"isVerified" json:"isVerified"`
	QualityScore  int  `bson:"qualityScore" json:"qualityScore"`
	IsHighQuality bool `bson:"isHighQuality" json:"isHighQuality"`

	HelpfulVotes  int                  `bson:"helpfulVotes" json:"helpfulVotes"`
	HelpfulVoters []primitive.ObjectID `bson:"helpfulVoters,omitempty" json:"-"`
	ReportCount   int                  `bson:"reportCount" json:"reportCount"`
	Reporters     []primitive.ObjectID `bson:"reporters,omitempty" json:"-"`
	ViewCount     int                  `bson:"viewCount" json:"viewCount"`

	ModerationStatus  string              `bson:"moderationStatus" json:"moderationStatus"`
	ModeratedBy       *primitive.ObjectID `bson:"moderatedBy,omitempty" json:"moderatedBy,omitempty"`
	ModeratedAt       *time.Time          `bson:"moderatedAt,omitempty" json:"moderatedAt,omitempty"`
	ModerationNote    string              `bson:"moderationNote,omitempty" json:"moderationNote,omitempty"`
	ModerationHistory []ModerationEntry   `bson:"moderationHistory,omitempty" json:"moderationHistory,omitempty"`

	Responses []Response `bson:"responses,omitempty" json:"responses,omitempty"`

	IsDeleted bool                `bson:"isDeleted" json:"-"`
	DeletedAt *time.Time          `bson:"deletedAt,omitempty" json:"-"`
	DeletedBy *primitive.ObjectID `bson:"deletedBy,omitempty" json:"-"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CreateReviewRequest is the submission payload.
type CreateReviewRequest struct {
	RevieweeID     string            `json:"revieweeId" binding:"required"`
	ServiceID      string            `json:"serviceId,omitempty"`
	Rating         int               `json:"rating" binding:"required,min=1,max=5"`
	Comment        string            `json:"comment,omitempty" binding:"omitempty,max=2000"`
	Images         []fileref.FileRef `json:"images,omitempty"`
	WouldRecommend *bool             `json:"wouldRecommend,omitempty"`
	ProjectID      string            `json:"projectId,omitempty"`
}

// UpdateReviewRequest covers the author-editable fields. Changing any of
// them triggers a quality-score recompute.
type UpdateReviewRequest struct {
	Rating         *int              `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment        *string           `json:"comment,omitempty" binding:"omitempty,max=2000"`
	Images         []fileref.FileRef `json:"images,omitempty"`
	WouldRecommend *bool             `json:"wouldRecommend,omitempty"`
}

type AddResponseRequest struct {
	Comment string `json:"comment" binding:"required,max=1000"`
}

type ModerateRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected hidden flagged"`
	Note   string `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// ReviewListQuery filters review listings.
type ReviewListQuery struct {
	RevieweeID       string `form:"revieweeId"`
	ReviewerID       string `form:"reviewerId"`
	ServiceID        string `form:"serviceId"`
	ModerationStatus string `form:"status"`
	MinRating        int    `form:"minRating" binding:"omitempty,min=1,max=5"`
	HighQualityOnly  bool   `form:"highQuality"`
	Page             int    `form:"page,default=1"`
	Limit            int    `form:"limit,default=20"`
}

// RatingSummary is the derived aggregate for a provider or service. It is
// computed on demand from approved, non-deleted reviews.
type RatingSummary struct {
	TotalReviews       int         `bson:"totalReviews" json:"totalReviews"`
	AverageRating      float64     `bson:"averageRating" json:"averageRating"`
	RatingDistribution map[int]int `bson:"-" json:"ratingDistribution"`
	RecommendationRate float64     `bson:"-" json:"recommendationRate"`
}
