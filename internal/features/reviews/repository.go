package reviews

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/taskhive-api/internal/pkg/pagination"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

// Repository handles database interactions for reviews. Engagement mutators
// are single atomic update statements so concurrent votes and reports from
// different users cannot lose writes.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reviews")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			// One review per (reviewer, reviewee, service) tuple.
			Keys: bson.D{
				{Key: "reviewerId", Value: 1},
				{Key: "revieweeId", Value: 1},
				{Key: "serviceId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "revieweeId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "serviceId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "moderationStatus", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a review. A second review for the same
// (reviewer, reviewee, service) tuple is rejected as a duplicate.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.ModerationStatus == "" {
		review.ModerationStatus = StatusPending
	}

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return mapDuplicateKey(err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}
	return nil
}

// GetByID fetches a review. Soft-deleted reviews are hidden unless the
// caller explicitly asks for them.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID, includeDeleted bool) (*Review, error) {
	filter := bson.M{"_id": id}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	var review Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// List returns reviews matching the query with newest first.
func (r *Repository) List(ctx context.Context, query *ReviewListQuery, includeDeleted bool) ([]Review, int64, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	if query.RevieweeID != "" {
		oid, err := primitive.ObjectIDFromHex(query.RevieweeID)
		if err != nil {
			return nil, 0, apperrors.ErrBadRequest
		}
		filter["revieweeId"] = oid
	}
	if query.ReviewerID != "" {
		oid, err := primitive.ObjectIDFromHex(query.ReviewerID)
		if err != nil {
			return nil, 0, apperrors.ErrBadRequest
		}
		filter["reviewerId"] = oid
	}
	if query.ServiceID != "" {
		oid, err := primitive.ObjectIDFromHex(query.ServiceID)
		if err != nil {
			return nil, 0, apperrors.ErrBadRequest
		}
		filter["serviceId"] = oid
	}
	if query.ModerationStatus != "" {
		filter["moderationStatus"] = query.ModerationStatus
	}
	if query.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": query.MinRating}
	}
	if query.HighQualityOnly {
		filter["isHighQuality"] = true
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := pagination.New(query.Page, query.Limit, total)
	query.Page, query.Limit = page.Page, page.Limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.GetOffset())).
		SetLimit(int64(page.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update applies a $set patch and bumps updatedAt.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": updates},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// The engagement mutations below are expressed as (filter, update) pairs so
// the guard documents can be asserted in isolation. The guard lives in the
// filter, which is what makes each statement atomic and idempotent.

// markHelpfulOp adds a helpful vote. A voter already in the set matches
// nothing, so a repeat vote is a no-op.
func markHelpfulOp(id, userID primitive.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"_id":           id,
		"isDeleted":     bson.M{"$ne": true},
		"helpfulVoters": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"helpfulVoters": userID},
		"$inc":      bson.M{"helpfulVotes": 1},
	}
	return filter, update
}

// removeHelpfulOp withdraws a vote. The counter only decrements when the
// voter was actually present, so it never goes negative.
func removeHelpfulOp(id, userID primitive.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"_id":           id,
		"isDeleted":     bson.M{"$ne": true},
		"helpfulVoters": userID,
	}
	update := bson.M{
		"$pull": bson.M{"helpfulVoters": userID},
		"$inc":  bson.M{"helpfulVotes": -1},
	}
	return filter, update
}

// reportOp records one report per user.
func reportOp(id, userID primitive.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"_id":       id,
		"isDeleted": bson.M{"$ne": true},
		"reporters": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"reporters": userID},
		"$inc":      bson.M{"reportCount": 1},
	}
	return filter, update
}

// flagTransitionOp moves a review to flagged once the report count reaches
// the threshold while it is still approved. The status guard means the
// transition fires exactly once and is never reversed by further reports.
func flagTransitionOp(id primitive.ObjectID, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"_id":              id,
		"reportCount":      bson.M{"$gte": FlagThreshold},
		"moderationStatus": StatusApproved,
	}
	update := bson.M{"$set": bson.M{"moderationStatus": StatusFlagged, "updatedAt": now}}
	return filter, update
}

// mapDuplicateKey converts a unique-index violation into ErrDuplicate.
func mapDuplicateKey(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrDuplicate
	}
	return err
}

// MarkHelpful records a helpful vote, idempotent per user.
func (r *Repository) MarkHelpful(ctx context.Context, id, userID primitive.ObjectID) error {
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	filter, update := markHelpfulOp(id, userID)
	_, err = r.collection.UpdateOne(ctx, filter, update)
	return err
}

// RemoveHelpful withdraws a helpful vote.
func (r *Repository) RemoveHelpful(ctx context.Context, id, userID primitive.ObjectID) error {
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	filter, update := removeHelpfulOp(id, userID)
	_, err = r.collection.UpdateOne(ctx, filter, update)
	return err
}

// ReportReview records one report per user and flags the review once the
// count reaches the threshold while it is still approved.
func (r *Repository) ReportReview(ctx context.Context, id, userID primitive.ObjectID) error {
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	filter, update := reportOp(id, userID)
	if _, err = r.collection.UpdateOne(ctx, filter, update); err != nil {
		return err
	}

	filter, update = flagTransitionOp(id, time.Now())
	_, err = r.collection.UpdateOne(ctx, filter, update)
	return err
}

// AddResponse appends a response record. Ordering is insertion order.
func (r *Repository) AddResponse(ctx context.Context, id primitive.ObjectID, resp Response) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{
			"$push": bson.M{"responses": resp},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter for an approved review only.
func (r *Repository) IncrementViewCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":              id,
			"isDeleted":        bson.M{"$ne": true},
			"moderationStatus": StatusApproved,
		},
		bson.M{"$inc": bson.M{"viewCount": 1}},
	)
	return err
}

// Moderate sets the moderation status with attribution and appends the
// decision to the history.
func (r *Repository) Moderate(ctx context.Context, id, moderatorID primitive.ObjectID, status, note string) error {
	now := time.Now()
	entry := ModerationEntry{
		Status:      status,
		ModeratorID: moderatorID,
		Note:        note,
		ModeratedAt: now,
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{
			"$set": bson.M{
				"moderationStatus": status,
				"moderatedBy":      moderatorID,
				"moderatedAt":      now,
				"moderationNote":   note,
				"updatedAt":        now,
			},
			"$push": bson.M{"moderationHistory": entry},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a review deleted with the acting user and timestamp.
func (r *Repository) SoftDelete(ctx context.Context, id, actorID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{
			"isDeleted": true,
			"deletedAt": time.Now(),
			"deletedBy": actorID,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type ratingAggregate struct {
	TotalReviews   int     `bson:"totalReviews"`
	AverageRating  float64 `bson:"averageRating"`
	Star1          int     `bson:"star1"`
	Star2          int     `bson:"star2"`
	Star3          int     `bson:"star3"`
	Star4          int     `bson:"star4"`
	Star5          int     `bson:"star5"`
	RecommendYes   int     `bson:"recommendYes"`
	RecommendTotal int     `bson:"recommendTotal"`
}

// GetRatingSummary aggregates approved, non-deleted reviews for a provider
// (byService=false, matching revieweeId) or a service listing
// (byService=true, matching serviceId). Reviews with no recommendation
// answer stay out of the recommendation-rate denominator.
func (r *Repository) GetRatingSummary(ctx context.Context, subjectID primitive.ObjectID, byService bool) (*RatingSummary, error) {
	subjectField := "revieweeId"
	if byService {
		subjectField = "serviceId"
	}

	starCase := func(star int) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$rating", star}}, 1, 0,
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			subjectField:       subjectID,
			"moderationStatus": StatusApproved,
			"isDeleted":        bson.M{"$ne": true},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalReviews":  bson.M{"$sum": 1},
			"averageRating": bson.M{"$avg": "$rating"},
			"star1":         starCase(1),
			"star2":         starCase(2),
			"star3":         starCase(3),
			"star4":         starCase(4),
			"star5":         starCase(5),
			"recommendYes": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$wouldRecommend", true}}, 1, 0,
			}}},
			"recommendTotal": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$wouldRecommend", bson.A{true, false}}}, 1, 0,
			}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []ratingAggregate
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summary := &RatingSummary{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(rows) == 0 {
		return summary, nil
	}

	row := rows[0]
	summary.TotalReviews = row.TotalReviews
	summary.AverageRating = math.Round(row.AverageRating*10) / 10
	summary.RatingDistribution[1] = row.Star1
	summary.RatingDistribution[2] = row.Star2
	summary.RatingDistribution[3] = row.Star3
	summary.RatingDistribution[4] = row.Star4
	summary.RatingDistribution[5] = row.Star5
	if row.RecommendTotal > 0 {
		summary.RecommendationRate = math.Round(float64(row.RecommendYes)/float64(row.RecommendTotal)*1000) / 10
	}
	return summary, nil
}
