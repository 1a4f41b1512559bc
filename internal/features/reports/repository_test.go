package reports

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

func TestBuildFilterDefaults(t *testing.T) {
	filter, err := buildFilter(&ReportListQuery{}, false)
	require.NoError(t, err)
	require.Equal(t, bson.M{"isDeleted": bson.M{"$ne": true}}, filter)

	filter, err = buildFilter(&ReportListQuery{}, true)
	require.NoError(t, err)
	require.Empty(t, filter)
}

func TestBuildFilterComposition(t *testing.T) {
	investigator := primitive.NewObjectID()
	escalated := true

	query := &ReportListQuery{
		Status:         StatusPending,
		Priority:       PriorityUrgent,
		ReportType:     TypeUser,
		InvestigatorID: investigator.Hex(),
		Escalated:      &escalated,
		From:           "2025-01-01T00:00:00Z",
		To:             "2025-06-30T23:59:59Z",
	}

	filter, err := buildFilter(query, false)
	require.NoError(t, err)
	require.Equal(t, StatusPending, filter["status"])
	require.Equal(t, PriorityUrgent, filter["priority"])
	require.Equal(t, TypeUser, filter["reportType"])
	require.Equal(t, investigator, filter["investigatorId"])
	require.Equal(t, true, filter["isEscalated"])

	createdAt, ok := filter["createdAt"].(bson.M)
	require.True(t, ok)
	require.Contains(t, createdAt, "$gte")
	require.Contains(t, createdAt, "$lte")
}

func TestBuildFilterRejectsBadValues(t *testing.T) {
	_, err := buildFilter(&ReportListQuery{InvestigatorID: "nope"}, false)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = buildFilter(&ReportListQuery{From: "yesterday"}, false)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = buildFilter(&ReportListQuery{To: "2025-13-01"}, false)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}
