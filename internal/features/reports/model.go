package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

// Report subtypes. The type is fixed at creation and decides which
// target fields are required.
const (
	TypeUser    = "user_report"
	TypeReview  = "review_report"
	TypeService = "service_report"
)

// Report lifecycle statuses.
const (
	StatusPending            = "pending"
	StatusUnderInvestigation = "under_investigation"
	StatusRequiresMoreInfo   = "requires_more_info"
	StatusResolved           = "resolved"
	StatusDismissed          = "dismissed"
	StatusEscalated          = "escalated"
)

// Priorities, most urgent first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Severities as declared by the reporter.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Report reasons. "other" requires a custom reason text.
const (
	ReasonInappropriateContent  = "inappropriate_content"
	ReasonHarassment            = "harassment"
	ReasonDiscrimination        = "discrimination"
	ReasonSafetyConcerns        = "safety_concerns"
	ReasonFakeProfile           = "fake_profile"
	ReasonSpam                  = "spam"
	ReasonPaymentDisputes       = "payment_disputes"
	ReasonPoorServiceQuality    = "poor_service_quality"
	ReasonMisleadingInformation = "misleading_information"
	ReasonOther                 = "other"
)

// Resolution outcomes.
const (
	ResolutionNoAction          = "no_action"
	ResolutionWarningIssued     = "warning_issued"
	ResolutionContentRemoved    = "content_removed"
	ResolutionAccountRestricted = "account_restricted"
	ResolutionAccountSuspended  = "account_suspended"
	ResolutionRefundProcessed   = "refund_processed"
)

// ResolutionAction is one concrete measure taken while resolving a report.
// Duration is in days and only meaningful for suspension actions.
type ResolutionAction struct {
	ActionType  string             `bson:"actionType" json:"actionType"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Duration    int                `bson:"duration,omitempty" json:"duration,omitempty"`
	ExecutedBy  primitive.ObjectID `bson:"executedBy" json:"executedBy"`
	ExecutedAt  time.Time          `bson:"executedAt" json:"executedAt"`
}

// InternalNote is a moderator-only annotation. Notes are append-only.
type InternalNote struct {
	AuthorID  primitive.ObjectID `bson:"authorId" json:"authorId"`
	Content   string             `bson:"content" json:"content"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	IsPrivate bool               `bson:"isPrivate" json:"isPrivate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Report is a moderation case. The three subtypes share this flat record;
// ReportType decides which target fields must be set.
type Report struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID   primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	ReporterRole string             `bson:"reporterRole" json:"reporterRole"`
	ReportType   string             `bson:"reportType" json:"reportType"`

	Reason       string            `bson:"reason" json:"reason"`
	CustomReason string            `bson:"customReason,omitempty" json:"customReason,omitempty"`
	Description  string            `bson:"description" json:"description"`
	Severity     string            `bson:"severity,omitempty" json:"severity,omitempty"`
	Evidence     []fileref.FileRef `bson:"evidence,omitempty" json:"evidence,omitempty"`

	// Subtype targets. Exactly one group is populated, per ReportType.
	ReportedUserID    *primitive.ObjectID `bson:"reportedUserId,omitempty" json:"reportedUserId,omitempty"`
	ReportedUserType  string              `bson:"reportedUserType,omitempty" json:"reportedUserType,omitempty"`
	ReportedReviewID  *primitive.ObjectID `bson:"reportedReviewId,omitempty" json:"reportedReviewId,omitempty"`
	ReviewIssue       string              `bson:"reviewIssue,omitempty" json:"reviewIssue,omitempty"`
	ReportedServiceID *primitive.ObjectID `bson:"reportedServiceId,omitempty" json:"reportedServiceId,omitempty"`
	ServiceIssue      string              `bson:"serviceIssue,omitempty" json:"serviceIssue,omitempty"`

	// System classification, recomputed whenever reason/severity change.
	Priority     string `bson:"priority" json:"priority"`
	PriorityRank int    `bson:"priorityRank" json:"-"`
	Category     string `bson:"category" json:"category"`

	Status         string              `bson:"status" json:"status"`
	InvestigatorID *primitive.ObjectID `bson:"investigatorId,omitempty" json:"investigatorId,omitempty"`
	AssignedAt     *time.Time          `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`

	IsEscalated      bool                `bson:"isEscalated" json:"isEscalated"`
	EscalatedTo      *primitive.ObjectID `bson:"escalatedTo,omitempty" json:"escalatedTo,omitempty"`
	EscalatedAt      *time.Time          `bson:"escalatedAt,omitempty" json:"escalatedAt,omitempty"`
	EscalationReason string              `bson:"escalationReason,omitempty" json:"escalationReason,omitempty"`

	ResolvedAt        *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ResolutionType    string             `bson:"resolutionType,omitempty" json:"resolutionType,omitempty"`
	ResolutionSummary string             `bson:"resolutionSummary,omitempty" json:"resolutionSummary,omitempty"`
	ResolutionActions []ResolutionAction `bson:"resolutionActions,omitempty" json:"resolutionActions,omitempty"`
	FollowUpRequired  bool               `bson:"followUpRequired" json:"followUpRequired"`
	FollowUpDate      *time.Time         `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`

	InternalNotes  []InternalNote       `bson:"internalNotes,omitempty" json:"internalNotes,omitempty"`
	RelatedReports []primitive.ObjectID `bson:"relatedReports,omitempty" json:"relatedReports,omitempty"`

	IsDeleted bool                `bson:"isDeleted" json:"-"`
	DeletedAt *time.Time          `bson:"deletedAt,omitempty" json:"-"`
	DeletedBy *primitive.ObjectID `bson:"deletedBy,omitempty" json:"-"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`

	// Derived at read time, never stored.
	IsOverdue bool `bson:"-" json:"isOverdue"`
}

// CreateReportRequest is the submission payload for all three subtypes.
type CreateReportRequest struct {
	ReportType   string            `json:"reportType" binding:"required,oneof=user_report review_report service_report"`
	Reason       string            `json:"reason" binding:"required,reportreason"`
	CustomReason string            `json:"customReason,omitempty" binding:"omitempty,max=200"`
	Description  string            `json:"description" binding:"required,min=10,max=2000"`
	Severity     string            `json:"severity,omitempty" binding:"omitempty,oneof=minor moderate major critical"`
	Evidence     []fileref.FileRef `json:"evidence,omitempty"`

	ReportedUserID    string `json:"reportedUserId,omitempty"`
	ReportedUserType  string `json:"reportedUserType,omitempty"`
	ReportedReviewID  string `json:"reportedReviewId,omitempty"`
	ReviewIssue       string `json:"reviewIssue,omitempty"`
	ReportedServiceID string `json:"reportedServiceId,omitempty"`
	ServiceIssue      string `json:"serviceIssue,omitempty"`
}

type AssignInvestigatorRequest struct {
	InvestigatorID string `json:"investigatorId" binding:"required"`
}

type EscalateRequest struct {
	EscalatedTo string `json:"escalatedTo" binding:"required"`
	Reason      string `json:"reason" binding:"required,max=1000"`
}

type ResolutionActionInput struct {
	ActionType  string `json:"actionType" binding:"required,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=1000"`
	Duration    int    `json:"duration,omitempty" binding:"omitempty,min=1"`
}

type ResolveRequest struct {
	ResolutionType    string                  `json:"resolutionType" binding:"required,oneof=no_action warning_issued content_removed account_restricted account_suspended refund_processed"`
	ResolutionSummary string                  `json:"resolutionSummary" binding:"required,max=2000"`
	Actions           []ResolutionActionInput `json:"actions,omitempty"`
}

type AddNoteRequest struct {
	Content   string `json:"content" binding:"required,max=1000"`
	Category  string `json:"category,omitempty" binding:"omitempty,max=100"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

type RelateReportsRequest struct {
	ReportIDs []string `json:"reportIds" binding:"required,min=1"`
}

// ReportListQuery is the flat filter surface for the moderation queue.
type ReportListQuery struct {
	Status         string `form:"status" binding:"omitempty,oneof=pending under_investigation requires_more_info resolved dismissed escalated"`
	Priority       string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ReportType     string `form:"type" binding:"omitempty,oneof=user_report review_report service_report"`
	InvestigatorID string `form:"investigatorId"`
	Escalated      *bool  `form:"escalated"`
	From           string `form:"from"` // RFC 3339
	To             string `form:"to"`
	Page           int    `form:"page,default=1"`
	Limit          int    `form:"limit,default=20"`
}

// Analytics is the aggregate moderation dashboard payload.
type Analytics struct {
	Total              int            `json:"total"`
	ByStatus           map[string]int `json:"byStatus"`
	ByPriority         map[string]int `json:"byPriority"`
	ByType             map[string]int `json:"byType"`
	Escalated          int            `json:"escalated"`
	Overdue            int            `json:"overdue"`
	AvgResolutionHours float64        `json:"avgResolutionHours"`
}
