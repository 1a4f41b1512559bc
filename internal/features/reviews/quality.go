package reviews

// ComputeQualityScore scores a review's content richness on a 0-100 scale.
// It always recomputes from the current field values, so it can be called
// after any content update without tracking deltas.
//
// Every stored review carries a rating, so the base 20 always applies and
// the result is in [20, 100].
func ComputeQualityScore(review *Review) int {
	score := 20

	switch {
	case len(review.Comment) > 100:
		score += 30
	case len(review.Comment) > 50:
		score += 20
	case len(review.Comment) > 0:
		score += 10
	}

	imageBonus := len(review.Images) * 10
	if imageBonus > 30 {
		imageBonus = 30
	}
	score += imageBonus

	if review.IsVerified {
		score += 20
	}
	if review.WouldRecommend != nil && *review.WouldRecommend {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ApplyQualityScore recomputes and stores the score and the derived
// high-quality flag on the review.
func ApplyQualityScore(review *Review) {
	review.QualityScore = ComputeQualityScore(review)
	review.IsHighQuality = review.QualityScore >= HighQualityThreshold
}
