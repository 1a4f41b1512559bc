package reports

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/taskhive-api/internal/pkg/pagination"
	apperrors "github.com/taskhive/taskhive-api/pkg/errors"
)

// Repository handles database interactions for reports. Every state
// transition is a single update statement matched against the live
// document, so a transition either fully persists or does not happen.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "priorityRank", Value: 1}, {Key: "createdAt", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "investigatorId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "reporterId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a report. Classification must already be applied.
func (r *Repository) Create(ctx context.Context, report *Report) error {
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	report.Status = StatusPending

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

// GetByID fetches a report. Soft-deleted reports are hidden unless asked for.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID, includeDeleted bool) (*Report, error) {
	filter := bson.M{"_id": id}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	var report Report
	err := r.collection.FindOne(ctx, filter).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// buildFilter translates the flat query parameters into a composed
// predicate. Kept separate from List so the composition is testable.
func buildFilter(query *ReportListQuery, includeDeleted bool) (bson.M, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Priority != "" {
		filter["priority"] = query.Priority
	}
	if query.ReportType != "" {
		filter["reportType"] = query.ReportType
	}
	if query.InvestigatorID != "" {
		oid, err := primitive.ObjectIDFromHex(query.InvestigatorID)
		if err != nil {
			return nil, apperrors.ErrBadRequest
		}
		filter["investigatorId"] = oid
	}
	if query.Escalated != nil {
		filter["isEscalated"] = *query.Escalated
	}

	createdAt := bson.M{}
	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return nil, apperrors.ErrBadRequest
		}
		createdAt["$gte"] = from
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return nil, apperrors.ErrBadRequest
		}
		createdAt["$lte"] = to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	return filter, nil
}

// List returns reports matching the query, most urgent and oldest first.
func (r *Repository) List(ctx context.Context, query *ReportListQuery, includeDeleted bool) ([]Report, int64, error) {
	filter, err := buildFilter(query, includeDeleted)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := pagination.New(query.Page, query.Limit, total)
	query.Page, query.Limit = page.Page, page.Limit
	opts := options.Find().
		SetSort(bson.D{{Key: "priorityRank", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetSkip(int64(page.GetOffset())).
		SetLimit(int64(page.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ListByReporter returns the reports a user filed, newest first.
func (r *Repository) ListByReporter(ctx context.Context, reporterID primitive.ObjectID, page, limit int) ([]Report, int64, error) {
	filter := bson.M{
		"reporterId": reporterID,
		"isDeleted":  bson.M{"$ne": true},
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	pg := pagination.New(page, limit, total)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(pg.GetOffset())).
		SetLimit(int64(pg.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// AssignInvestigator moves a report under investigation.
func (r *Repository) AssignInvestigator(ctx context.Context, id, investigatorID primitive.ObjectID) error {
	now := time.Now()
	return r.updateLive(ctx, id, bson.M{"$set": bson.M{
		"status":         StatusUnderInvestigation,
		"investigatorId": investigatorID,
		"assignedAt":     now,
		"updatedAt":      now,
	}})
}

// Escalate marks a report escalated and floors its priority at high.
func (r *Repository) Escalate(ctx context.Context, id, escalatedTo primitive.ObjectID, reason, newPriority string) error {
	now := time.Now()
	return r.updateLive(ctx, id, bson.M{"$set": bson.M{
		"status":           StatusEscalated,
		"isEscalated":      true,
		"escalatedTo":      escalatedTo,
		"escalatedAt":      now,
		"escalationReason": reason,
		"priority":         newPriority,
		"priorityRank":     PriorityRank(newPriority),
		"updatedAt":        now,
	}})
}

// Resolve closes a report with an outcome and any follow-up bookkeeping.
func (r *Repository) Resolve(ctx context.Context, id primitive.ObjectID, resolutionType, summary string, actions []ResolutionAction, followUpRequired bool, followUpDate *time.Time) error {
	now := time.Now()
	set := bson.M{
		"status":            StatusResolved,
		"resolvedAt":        now,
		"resolutionType":    resolutionType,
		"resolutionSummary": summary,
		"followUpRequired":  followUpRequired,
		"updatedAt":         now,
	}
	if len(actions) > 0 {
		set["resolutionActions"] = actions
	}
	if followUpDate != nil {
		set["followUpDate"] = *followUpDate
	}
	return r.updateLive(ctx, id, bson.M{"$set": set})
}

// AddInternalNote appends a moderator note. Notes are never edited.
func (r *Repository) AddInternalNote(ctx context.Context, id primitive.ObjectID, note InternalNote) error {
	return r.updateLive(ctx, id, bson.M{
		"$push": bson.M{"internalNotes": note},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

// RelateReports unions the given IDs into the related-reports set.
func (r *Repository) RelateReports(ctx context.Context, id primitive.ObjectID, relatedIDs []primitive.ObjectID) error {
	return r.updateLive(ctx, id, bson.M{
		"$addToSet": bson.M{"relatedReports": bson.M{"$each": relatedIDs}},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

// SetStatus moves a report to an arbitrary status, used for the
// requires-more-info and dismissed transitions.
func (r *Repository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return r.updateLive(ctx, id, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}})
}

// SoftDelete marks a report deleted with the acting user and timestamp.
func (r *Repository) SoftDelete(ctx context.Context, id, actorID primitive.ObjectID) error {
	now := time.Now()
	return r.updateLive(ctx, id, bson.M{"$set": bson.M{
		"isDeleted": true,
		"deletedAt": now,
		"deletedBy": actorID,
		"updatedAt": now,
	}})
}

func (r *Repository) updateLive(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Unassigned returns pending reports with no investigator, most urgent and
// oldest first. priorityRank carries the sort order so urgent really does
// come before high.
func (r *Repository) Unassigned(ctx context.Context, priority string, page, limit int) ([]Report, int64, error) {
	filter := bson.M{
		"status":         StatusPending,
		"investigatorId": bson.M{"$exists": false},
		"isDeleted":      bson.M{"$ne": true},
	}
	if priority != "" {
		filter["priority"] = priority
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	pg := pagination.New(page, limit, total)
	opts := options.Find().
		SetSort(bson.D{{Key: "priorityRank", Value: 1}, {Key: "createdAt", Value: 1}}).
		SetSkip(int64(pg.GetOffset())).
		SetLimit(int64(pg.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Overdue returns open reports past their priority's handling window.
// The cutoffs mirror IsOverdue.
func (r *Repository) Overdue(ctx context.Context, now time.Time) ([]Report, error) {
	filter := bson.M{
		"status":    bson.M{"$in": openStatuses},
		"isDeleted": bson.M{"$ne": true},
		"$or": []bson.M{
			{"priority": PriorityUrgent, "createdAt": bson.M{"$lt": now.Add(-overdueThresholds[PriorityUrgent])}},
			{"priority": PriorityHigh, "createdAt": bson.M{"$lt": now.Add(-overdueThresholds[PriorityHigh])}},
			{"priority": PriorityMedium, "createdAt": bson.M{"$lt": now.Add(-overdueThresholds[PriorityMedium])}},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "priorityRank", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

type countBucket struct {
	ID    string `bson:"_id"`
	Count int    `bson:"count"`
}

type analyticsRow struct {
	ByStatus   []countBucket `bson:"byStatus"`
	ByPriority []countBucket `bson:"byPriority"`
	ByType     []countBucket `bson:"byType"`
	Escalated  []countBucket `bson:"escalated"`
	Resolution []struct {
		AvgHours float64 `bson:"avgHours"`
	} `bson:"resolution"`
}

// GetAnalytics aggregates the moderation dashboard counters in one
// round trip.
func (r *Repository) GetAnalytics(ctx context.Context, now time.Time) (*Analytics, error) {
	group := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isDeleted": bson.M{"$ne": true}}}},
		{{Key: "$facet", Value: bson.M{
			"byStatus":   group("status"),
			"byPriority": group("priority"),
			"byType":     group("reportType"),
			"escalated": bson.A{
				bson.M{"$match": bson.M{"isEscalated": true}},
				bson.M{"$count": "count"},
			},
			"resolution": bson.A{
				bson.M{"$match": bson.M{"status": StatusResolved, "resolvedAt": bson.M{"$ne": nil}}},
				bson.M{"$project": bson.M{
					"hours": bson.M{"$divide": bson.A{
						bson.M{"$subtract": bson.A{"$resolvedAt", "$createdAt"}},
						1000 * 60 * 60,
					}},
				}},
				bson.M{"$group": bson.M{"_id": nil, "avgHours": bson.M{"$avg": "$hours"}}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []analyticsRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	analytics := &Analytics{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByType:     map[string]int{},
	}
	if len(rows) == 0 {
		return analytics, nil
	}

	row := rows[0]
	for _, b := range row.ByStatus {
		analytics.ByStatus[b.ID] = b.Count
		analytics.Total += b.Count
	}
	for _, b := range row.ByPriority {
		analytics.ByPriority[b.ID] = b.Count
	}
	for _, b := range row.ByType {
		analytics.ByType[b.ID] = b.Count
	}
	if len(row.Escalated) > 0 {
		analytics.Escalated = row.Escalated[0].Count
	}
	if len(row.Resolution) > 0 {
		analytics.AvgResolutionHours = row.Resolution[0].AvgHours
	}

	overdue, err := r.Overdue(ctx, now)
	if err != nil {
		return nil, err
	}
	analytics.Overdue = len(overdue)

	return analytics, nil
}
