package reviews

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

func TestMarkHelpfulOpSkipsRepeatVoters(t *testing.T) {
	id := primitive.NewObjectID()
	user := primitive.NewObjectID()

	filter, update := markHelpfulOp(id, user)

	require.Equal(t, id, filter["_id"])
	require.Equal(t, bson.M{"$ne": true}, filter["isDeleted"])
	// A voter already in the set matches nothing, so the vote lands once
	// no matter how many times the same user retries.
	require.Equal(t, bson.M{"$ne": user}, filter["helpfulVoters"])

	require.Equal(t, bson.M{"helpfulVoters": user}, update["$addToSet"])
	require.Equal(t, bson.M{"helpfulVotes": 1}, update["$inc"])
}

func TestRemoveHelpfulOpRequiresExistingVote(t *testing.T) {
	id := primitive.NewObjectID()
	user := primitive.NewObjectID()

	filter, update := removeHelpfulOp(id, user)

	require.Equal(t, id, filter["_id"])
	require.Equal(t, bson.M{"$ne": true}, filter["isDeleted"])
	// Withdrawing without a prior vote matches nothing, so the counter
	// never goes negative.
	require.Equal(t, user, filter["helpfulVoters"])

	require.Equal(t, bson.M{"helpfulVoters": user}, update["$pull"])
	require.Equal(t, bson.M{"helpfulVotes": -1}, update["$inc"])
}

func TestReportOpCountsEachUserOnce(t *testing.T) {
	id := primitive.NewObjectID()
	user := primitive.NewObjectID()

	filter, update := reportOp(id, user)

	require.Equal(t, id, filter["_id"])
	require.Equal(t, bson.M{"$ne": true}, filter["isDeleted"])
	require.Equal(t, bson.M{"$ne": user}, filter["reporters"])

	require.Equal(t, bson.M{"reporters": user}, update["$addToSet"])
	require.Equal(t, bson.M{"reportCount": 1}, update["$inc"])
}

func TestFlagTransitionOpFiresOnceAtThreshold(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now()

	filter, update := flagTransitionOp(id, now)

	require.Equal(t, 3, FlagThreshold)
	require.Equal(t, id, filter["_id"])
	require.Equal(t, bson.M{"$gte": FlagThreshold}, filter["reportCount"])
	// Matching on approved means the transition fires exactly once; a
	// review already flagged, hidden or rejected is left alone.
	require.Equal(t, StatusApproved, filter["moderationStatus"])

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	require.Equal(t, StatusFlagged, set["moderationStatus"])
	require.Equal(t, now, set["updatedAt"])
}

func TestMapDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
	require.ErrorIs(t, mapDuplicateKey(dup), apperrors.ErrDuplicate)

	other := errors.New("connection reset")
	require.Equal(t, other, mapDuplicateKey(other))
}
