package reports

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validUserReport() *CreateReportRequest {
	return &CreateReportRequest{
		ReportType:       TypeUser,
		Reason:           ReasonHarassment,
		Description:      "repeated abusive messages in chat",
		ReportedUserID:   primitive.NewObjectID().Hex(),
		ReportedUserType: "provider",
	}
}

func TestValidateCreateCustomReason(t *testing.T) {
	req := validUserReport()
	req.Reason = ReasonOther

	_, err := ValidateCreate(req)
	require.ErrorIs(t, err, ErrCustomReasonRequired)

	req.CustomReason = "something the enum does not cover"
	_, err = ValidateCreate(req)
	require.NoError(t, err)

	// Whitespace does not count as a custom reason.
	req.CustomReason = "   "
	_, err = ValidateCreate(req)
	require.ErrorIs(t, err, ErrCustomReasonRequired)
}

func TestValidateCreateUserReport(t *testing.T) {
	req := validUserReport()
	target, err := ValidateCreate(req)
	require.NoError(t, err)
	require.NotNil(t, target.userID)
	require.Equal(t, "provider", target.userType)

	req.ReportedUserID = ""
	_, err = ValidateCreate(req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reportedUserId")

	req = validUserReport()
	req.ReportedUserType = ""
	_, err = ValidateCreate(req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reportedUserType")

	req = validUserReport()
	req.ReportedUserID = "not-an-id"
	_, err = ValidateCreate(req)
	require.Error(t, err)
}

func TestValidateCreateReviewReport(t *testing.T) {
	req := &CreateReportRequest{
		ReportType:       TypeReview,
		Reason:           ReasonSpam,
		Description:      "review is copy pasted advertising",
		ReportedReviewID: primitive.NewObjectID().Hex(),
		ReviewIssue:      "spam content",
	}

	target, err := ValidateCreate(req)
	require.NoError(t, err)
	require.NotNil(t, target.reviewID)

	req.ReviewIssue = ""
	_, err = ValidateCreate(req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reviewIssue")

	req.ReviewIssue = "spam content"
	req.ReportedReviewID = ""
	_, err = ValidateCreate(req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "reportedReviewId")
}

func TestValidateCreateServiceReport(t *testing.T) {
	req := &CreateReportRequest{
		ReportType:        TypeService,
		Reason:            ReasonMisleadingInformation,
		Description:       "listing promises work the provider cannot do",
		ReportedServiceID: primitive.NewObjectID().Hex(),
		ServiceIssue:      "misleading listing",
	}

	target, err := ValidateCreate(req)
	require.NoError(t, err)
	require.NotNil(t, target.serviceID)

	req.ServiceIssue = " "
	_, err = ValidateCreate(req)
	require.Error(t, err)
	require.Contains(t, err.Error(), "serviceIssue")
}

func TestValidateCreateUnknownType(t *testing.T) {
	req := validUserReport()
	req.ReportType = "profile_report"

	_, err := ValidateCreate(req)
	require.Error(t, err)
}

func TestIsValidReason(t *testing.T) {
	for reason := range validReasons {
		require.True(t, IsValidReason(reason))
	}
	require.False(t, IsValidReason("rudeness"))
	require.False(t, IsValidReason(""))
}
