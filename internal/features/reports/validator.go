package reports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

var validReasons = map[string]bool{
	ReasonInappropriateContent:  true,
	ReasonHarassment:            true,
	ReasonDiscrimination:        true,
	ReasonSafetyConcerns:        true,
	ReasonFakeProfile:           true,
	ReasonSpam:                  true,
	ReasonPaymentDisputes:       true,
	ReasonPoorServiceQuality:    true,
	ReasonMisleadingInformation: true,
	ReasonOther:                 true,
}

// IsValidReason reports whether reason is one of the closed enum values.
func IsValidReason(reason string) bool {
	return validReasons[reason]
}

// RegisterValidations installs the custom binding rules on gin's validator
// engine. Safe to call more than once.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reportreason", func(fl validator.FieldLevel) bool {
			return IsValidReason(fl.Field().String())
		})
	}
}

var ErrCustomReasonRequired = errors.New("custom reason is required when reason is \"other\"")

// reportTarget holds the parsed subtype-specific target of a report.
type reportTarget struct {
	userID    *primitive.ObjectID
	userType  string
	reviewID  *primitive.ObjectID
	serviceID *primitive.ObjectID
}

// ValidateCreate checks the domain rules that binding tags cannot express
// and parses the subtype-specific target IDs. Runs before classification
// and persistence, so an invalid report never reaches storage.
func ValidateCreate(req *CreateReportRequest) (*reportTarget, error) {
	if req.Reason == ReasonOther && strings.TrimSpace(req.CustomReason) == "" {
		return nil, ErrCustomReasonRequired
	}

	if len(req.Evidence) > 0 {
		if err := fileref.Validate(req.Evidence, fileref.EvidenceConstraints); err != nil {
			return nil, err
		}
	}

	target := &reportTarget{}
	var missing []string

	switch req.ReportType {
	case TypeUser:
		if req.ReportedUserID == "" {
			missing = append(missing, "reportedUserId")
		} else {
			oid, err := primitive.ObjectIDFromHex(req.ReportedUserID)
			if err != nil {
				return nil, errors.New("reportedUserId is not a valid ID")
			}
			target.userID = &oid
		}
		if req.ReportedUserType == "" {
			missing = append(missing, "reportedUserType")
		}
		target.userType = req.ReportedUserType

	case TypeReview:
		if req.ReportedReviewID == "" {
			missing = append(missing, "reportedReviewId")
		} else {
			oid, err := primitive.ObjectIDFromHex(req.ReportedReviewID)
			if err != nil {
				return nil, errors.New("reportedReviewId is not a valid ID")
			}
			target.reviewID = &oid
		}
		if strings.TrimSpace(req.ReviewIssue) == "" {
			missing = append(missing, "reviewIssue")
		}

	case TypeService:
		if req.ReportedServiceID == "" {
			missing = append(missing, "reportedServiceId")
		} else {
			oid, err := primitive.ObjectIDFromHex(req.ReportedServiceID)
			if err != nil {
				return nil, errors.New("reportedServiceId is not a valid ID")
			}
			target.serviceID = &oid
		}
		if strings.TrimSpace(req.ServiceIssue) == "" {
			missing = append(missing, "serviceIssue")
		}

	default:
		return nil, fmt.Errorf("unknown report type %q", req.ReportType)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields for %s: %s",
			req.ReportType, strings.Join(missing, ", "))
	}
	return target, nil
}
