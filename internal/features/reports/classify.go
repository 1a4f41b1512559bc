package reports

import "time"

// reasonCategories maps a report reason to its human-facing category label.
var reasonCategories = map[string]string{
	ReasonInappropriateContent:  "Content Violation",
	ReasonHarassment:            "Harassment & Bullying",
	ReasonDiscrimination:        "Discrimination",
	ReasonSafetyConcerns:        "Safety & Security",
	ReasonFakeProfile:           "Identity & Authenticity",
	ReasonSpam:                  "Spam",
	ReasonPaymentDisputes:       "Payment & Billing",
	ReasonPoorServiceQuality:    "Service Quality",
	ReasonMisleadingInformation: "Misleading Information",
}

// priorityRanks gives priorities a sortable order, most urgent first.
var priorityRanks = map[string]int{
	PriorityUrgent: 1,
	PriorityHigh:   2,
	PriorityMedium: 3,
	PriorityLow:    4,
}

// Classify derives priority and category from reason and severity.
//
// The branches must stay in this order: a report can match several
// conditions, and the first matching tier wins. Do not reorder the reason
// and severity checks within a tier without product confirmation.
func Classify(reason, severity string) (priority, category string) {
	switch {
	case reason == ReasonSafetyConcerns || reason == ReasonHarassment ||
		reason == ReasonDiscrimination || severity == SeverityCritical:
		priority = PriorityUrgent
	case reason == ReasonFakeProfile || reason == ReasonPaymentDisputes ||
		severity == SeverityMajor:
		priority = PriorityHigh
	case severity == SeverityModerate:
		priority = PriorityMedium
	default:
		priority = PriorityLow
	}

	category = reasonCategories[reason]
	if category == "" {
		category = "General"
	}
	return priority, category
}

// PriorityRank maps a priority to its sort rank (urgent=1 .. low=4).
// Unknown priorities sort last.
func PriorityRank(priority string) int {
	if rank, ok := priorityRanks[priority]; ok {
		return rank
	}
	return len(priorityRanks) + 1
}

// EscalatedPriority raises a priority to at least high. An urgent report is
// never downgraded by escalation.
func EscalatedPriority(current string) string {
	if current == PriorityUrgent {
		return PriorityUrgent
	}
	return PriorityHigh
}

// followUpResolutions are the outcomes that require a follow-up check.
var followUpResolutions = map[string]bool{
	ResolutionWarningIssued:     true,
	ResolutionAccountSuspended:  true,
	ResolutionAccountRestricted: true,
}

// RequiresFollowUp reports whether a resolution outcome needs a later check.
func RequiresFollowUp(resolutionType string) bool {
	return followUpResolutions[resolutionType]
}

// FollowUpDate computes when a suspension should be revisited: now plus the
// duration of the first suspension action that carries one. Returns nil when
// the resolution is not a suspension or no action has a duration.
func FollowUpDate(resolutionType string, actions []ResolutionAction, now time.Time) *time.Time {
	if resolutionType != ResolutionAccountSuspended {
		return nil
	}
	for _, action := range actions {
		if action.ActionType == "suspension" && action.Duration > 0 {
			date := now.AddDate(0, 0, action.Duration)
			return &date
		}
	}
	return nil
}

// Overdue thresholds per priority. Low-priority reports never go overdue.
var overdueThresholds = map[string]time.Duration{
	PriorityUrgent: 4 * time.Hour,
	PriorityHigh:   24 * time.Hour,
	PriorityMedium: 72 * time.Hour,
}

// IsOverdue reports whether an open report has exceeded its priority's
// handling window.
func IsOverdue(priority string, createdAt, now time.Time) bool {
	threshold, ok := overdueThresholds[priority]
	if !ok {
		return false
	}
	return now.Sub(createdAt) > threshold
}

// openStatuses are the statuses an overdue report can be in.
var openStatuses = []string{StatusPending, StatusUnderInvestigation}
