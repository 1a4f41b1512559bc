package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		severity string
		want     string
	}{
		{"harassment ignores minor severity", ReasonHarassment, SeverityMinor, PriorityUrgent},
		{"safety concerns", ReasonSafetyConcerns, "", PriorityUrgent},
		{"discrimination", ReasonDiscrimination, SeverityModerate, PriorityUrgent},
		{"critical severity forces urgent", ReasonPoorServiceQuality, SeverityCritical, PriorityUrgent},
		{"fake profile", ReasonFakeProfile, SeverityMinor, PriorityHigh},
		{"payment dispute", ReasonPaymentDisputes, "", PriorityHigh},
		{"major severity", ReasonSpam, SeverityMajor, PriorityHigh},
		{"moderate severity", ReasonPoorServiceQuality, SeverityModerate, PriorityMedium},
		{"minor severity falls through", ReasonSpam, SeverityMinor, PriorityLow},
		{"no severity falls through", ReasonInappropriateContent, "", PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, _ := Classify(tt.reason, tt.severity)
			require.Equal(t, tt.want, priority)
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	_, category := Classify(ReasonHarassment, SeverityMinor)
	require.Equal(t, "Harassment & Bullying", category)

	_, category = Classify(ReasonPaymentDisputes, "")
	require.Equal(t, "Payment & Billing", category)

	// "other" and anything unknown fall back to General.
	_, category = Classify(ReasonOther, SeverityCritical)
	require.Equal(t, "General", category)
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		priority, category := Classify(ReasonFakeProfile, SeverityModerate)
		require.Equal(t, PriorityHigh, priority)
		require.Equal(t, "Identity & Authenticity", category)
	}
}

func TestPriorityRank(t *testing.T) {
	require.Equal(t, 1, PriorityRank(PriorityUrgent))
	require.Equal(t, 2, PriorityRank(PriorityHigh))
	require.Equal(t, 3, PriorityRank(PriorityMedium))
	require.Equal(t, 4, PriorityRank(PriorityLow))
	require.Equal(t, 5, PriorityRank("bogus"))
}

func TestEscalatedPriorityFloor(t *testing.T) {
	require.Equal(t, PriorityHigh, EscalatedPriority(PriorityLow))
	require.Equal(t, PriorityHigh, EscalatedPriority(PriorityMedium))
	require.Equal(t, PriorityHigh, EscalatedPriority(PriorityHigh))
	// Urgent is never downgraded.
	require.Equal(t, PriorityUrgent, EscalatedPriority(PriorityUrgent))
}

func TestRequiresFollowUp(t *testing.T) {
	require.True(t, RequiresFollowUp(ResolutionWarningIssued))
	require.True(t, RequiresFollowUp(ResolutionAccountSuspended))
	require.True(t, RequiresFollowUp(ResolutionAccountRestricted))

	require.False(t, RequiresFollowUp(ResolutionNoAction))
	require.False(t, RequiresFollowUp(ResolutionContentRemoved))
	require.False(t, RequiresFollowUp(ResolutionRefundProcessed))
}

func TestFollowUpDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	executor := primitive.NewObjectID()

	actions := []ResolutionAction{
		{ActionType: "notification", ExecutedBy: executor, ExecutedAt: now},
		{ActionType: "suspension", Duration: 7, ExecutedBy: executor, ExecutedAt: now},
		{ActionType: "suspension", Duration: 30, ExecutedBy: executor, ExecutedAt: now},
	}

	// The first suspension with a duration wins.
	date := FollowUpDate(ResolutionAccountSuspended, actions, now)
	require.NotNil(t, date)
	require.Equal(t, now.AddDate(0, 0, 7), *date)

	// Not a suspension: no follow-up date even with matching actions.
	require.Nil(t, FollowUpDate(ResolutionWarningIssued, actions, now))

	// Suspension without a duration action: no date.
	require.Nil(t, FollowUpDate(ResolutionAccountSuspended, []ResolutionAction{
		{ActionType: "suspension", ExecutedBy: executor, ExecutedAt: now},
	}, now))
}

func TestIsOverdueBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// High threshold is 24h: one second past is overdue, one minute short is not.
	require.True(t, IsOverdue(PriorityHigh, now.Add(-24*time.Hour-time.Second), now))
	require.False(t, IsOverdue(PriorityHigh, now.Add(-23*time.Hour-59*time.Minute), now))
	require.False(t, IsOverdue(PriorityHigh, now.Add(-24*time.Hour), now))

	require.True(t, IsOverdue(PriorityUrgent, now.Add(-4*time.Hour-time.Second), now))
	require.False(t, IsOverdue(PriorityUrgent, now.Add(-4*time.Hour), now))

	require.True(t, IsOverdue(PriorityMedium, now.Add(-73*time.Hour), now))
	require.False(t, IsOverdue(PriorityMedium, now.Add(-72*time.Hour), now))

	// Low never goes overdue.
	require.False(t, IsOverdue(PriorityLow, now.Add(-1000*time.Hour), now))
}
