package reviews

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

func TestValidateCreateRejectsSelfReview(t *testing.T) {
	id := primitive.NewObjectID()
	req := &CreateReviewRequest{Rating: 5}

	err := ValidateCreate(req, id, id)
	require.ErrorIs(t, err, ErrSelfReview)
}

func TestValidateCreateRatingRange(t *testing.T) {
	reviewer := primitive.NewObjectID()
	reviewee := primitive.NewObjectID()

	require.ErrorIs(t, ValidateCreate(&CreateReviewRequest{Rating: 0}, reviewer, reviewee), ErrInvalidRating)
	require.ErrorIs(t, ValidateCreate(&CreateReviewRequest{Rating: 6}, reviewer, reviewee), ErrInvalidRating)
	require.NoError(t, ValidateCreate(&CreateReviewRequest{Rating: 1}, reviewer, reviewee))
	require.NoError(t, ValidateCreate(&CreateReviewRequest{Rating: 5}, reviewer, reviewee))
}

func TestValidateCreateCommentLength(t *testing.T) {
	reviewer := primitive.NewObjectID()
	reviewee := primitive.NewObjectID()

	req := &CreateReviewRequest{Rating: 4, Comment: strings.Repeat("a", 2001)}
	require.ErrorIs(t, ValidateCreate(req, reviewer, reviewee), ErrCommentTooLong)

	req.Comment = strings.Repeat("a", 2000)
	require.NoError(t, ValidateCreate(req, reviewer, reviewee))
}

func TestValidateCreateImageLimit(t *testing.T) {
	reviewer := primitive.NewObjectID()
	reviewee := primitive.NewObjectID()

	refs := make([]fileref.FileRef, 6)
	for i := range refs {
		refs[i] = fileref.FileRef{URL: "https://cdn.example.com/a.png", FileName: "a.png"}
	}

	req := &CreateReviewRequest{Rating: 4, Images: refs}
	require.Error(t, ValidateCreate(req, reviewer, reviewee))

	req.Images = refs[:5]
	require.NoError(t, ValidateCreate(req, reviewer, reviewee))
}

func TestValidateUpdate(t *testing.T) {
	bad := 0
	require.ErrorIs(t, ValidateUpdate(&UpdateReviewRequest{Rating: &bad}), ErrInvalidRating)

	long := strings.Repeat("a", 2001)
	require.ErrorIs(t, ValidateUpdate(&UpdateReviewRequest{Comment: &long}), ErrCommentTooLong)

	good := 3
	ok := "much better after the revision"
	require.NoError(t, ValidateUpdate(&UpdateReviewRequest{Rating: &good, Comment: &ok}))
}
