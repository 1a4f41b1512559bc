package reviews

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

func boolPtr(b bool) *bool { return &b }

func images(n int) []fileref.FileRef {
	refs := make([]fileref.FileRef, n)
	for i := range refs {
		refs[i] = fileref.FileRef{URL: "https://cdn.example.com/img.jpg", FileName: "img.jpg"}
	}
	return refs
}

func TestComputeQualityScoreBase(t *testing.T) {
	score := ComputeQualityScore(&Review{Rating: 3})
	require.Equal(t, 20, score)
}

func TestComputeQualityScoreCommentTiers(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    int
	}{
		{"no comment", "", 20},
		{"short comment", "ok job", 30},
		{"medium comment", strings.Repeat("a", 51), 40},
		{"exactly 50 chars", strings.Repeat("a", 50), 30},
		{"long comment", strings.Repeat("a", 101), 50},
		{"exactly 100 chars", strings.Repeat("a", 100), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeQualityScore(&Review{Rating: 5, Comment: tt.comment})
			require.Equal(t, tt.want, score)
		})
	}
}

func TestComputeQualityScoreImageCap(t *testing.T) {
	require.Equal(t, 30, ComputeQualityScore(&Review{Rating: 5, Images: images(1)}))
	require.Equal(t, 40, ComputeQualityScore(&Review{Rating: 5, Images: images(2)}))
	require.Equal(t, 50, ComputeQualityScore(&Review{Rating: 5, Images: images(3)}))
	// 4+ images hit the same cap.
	require.Equal(t, 50, ComputeQualityScore(&Review{Rating: 5, Images: images(5)}))
}

func TestComputeQualityScoreRecommendation(t *testing.T) {
	require.Equal(t, 30, ComputeQualityScore(&Review{Rating: 5, WouldRecommend: boolPtr(true)}))
	// false and absent are worth nothing.
	require.Equal(t, 20, ComputeQualityScore(&Review{Rating: 5, WouldRecommend: boolPtr(false)}))
	require.Equal(t, 20, ComputeQualityScore(&Review{Rating: 5}))
}

func TestComputeQualityScoreCap(t *testing.T) {
	// Full house sums to 110 and must be capped.
	review := &Review{
		Rating:         5,
		Comment:        strings.Repeat("a", 150),
		Images:         images(3),
		IsVerified:     true,
		WouldRecommend: boolPtr(true),
	}
	require.Equal(t, 100, ComputeQualityScore(review))

	// Dropping any one max component keeps the score below 100.
	review.IsVerified = false
	require.Less(t, ComputeQualityScore(review), 100)
}

func TestComputeQualityScoreBounds(t *testing.T) {
	reviews := []*Review{
		{Rating: 1},
		{Rating: 5, Comment: strings.Repeat("x", 2000), Images: images(5), IsVerified: true, WouldRecommend: boolPtr(true)},
		{Rating: 3, Comment: "fine", IsVerified: true},
	}
	for _, rv := range reviews {
		score := ComputeQualityScore(rv)
		require.GreaterOrEqual(t, score, 20)
		require.LessOrEqual(t, score, 100)
	}
}

func TestComputeQualityScoreRecomputesFromScratch(t *testing.T) {
	review := &Review{Rating: 5, Comment: strings.Repeat("a", 150), IsVerified: true}
	ApplyQualityScore(review)
	require.Equal(t, 70, review.QualityScore)
	require.True(t, review.IsHighQuality)

	// Shrinking the comment must drop the tier, not keep the old bonus.
	review.Comment = "short"
	ApplyQualityScore(review)
	require.Equal(t, 50, review.QualityScore)
	require.False(t, review.IsHighQuality)
}

func TestApplyQualityScoreHighQualityThreshold(t *testing.T) {
	// 20 + 30 + 20 = 70, right on the threshold.
	review := &Review{Rating: 4, Comment: strings.Repeat("a", 120), IsVerified: true}
	ApplyQualityScore(review)
	require.Equal(t, 70, review.QualityScore)
	require.True(t, review.IsHighQuality)

	// 20 + 30 + 10 = 60, just below.
	review = &Review{Rating: 4, Comment: strings.Repeat("a", 120), WouldRecommend: boolPtr(true)}
	ApplyQualityScore(review)
	require.Equal(t, 60, review.QualityScore)
	require.False(t, review.IsHighQuality)
}
