package services

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

// Repository handles database interactions for service listings
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates the repository and ensures indexes. Free-text search
// over listings is delegated to the storage engine via the text index.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("services")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
			},
		},
		{
			Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a listing
func (r *Repository) Create(ctx context.Context, service *Service) error {
	service.IsActive = true
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, service)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		service.ID = oid
	}
	return nil
}

// GetByID returns a listing; deleted records surface as not found unless
// includeDeleted is set.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID, includeDeleted bool) (*Service, error) {
	filter := bson.M{"_id": id}
	if !includeDeleted {
		filter["isDeleted"] = bson.M{"$ne": true}
	}

	var service Service
	err := r.collection.FindOne(ctx, filter).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// List returns active listings matching the query with pagination
func (r *Repository) List(ctx context.Context, query *ServiceListQuery) ([]Service, int64, error) {
	filter := bson.M{
		"isActive":  true,
		"isDeleted": bson.M{"$ne": true},
	}

	if query.CategoryID != "" {
		oid, err := primitive.ObjectIDFromHex(query.CategoryID)
		if err != nil {
			return nil, 0, apperrors.ErrBadRequest
		}
		filter["categoryId"] = oid
	}
	if query.ProviderID != "" {
		oid, err := primitive.ObjectIDFromHex(query.ProviderID)
		if err != nil {
			return nil, 0, apperrors.ErrBadRequest
		}
		filter["providerId"] = oid
	}
	if query.Search != "" {
		filter["$text"] = bson.M{"$search": query.Search}
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

	var listings []Service
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, 0, err
	}
	if listings == nil {
		listings = []Service{}
	}

	return listings, total, nil
}

// Update applies field updates to a live listing
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SoftDelete marks a listing deleted with actor attribution
func (r *Repository) SoftDelete(ctx context.Context, id, actorID primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{
			"isDeleted": true,
			"deletedAt": now,
			"deletedBy": actorID,
			"isActive":  false,
			"updatedAt": now,
		}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
