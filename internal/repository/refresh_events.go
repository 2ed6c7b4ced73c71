package repository

import (
	"context"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RefreshEventsRepository stores the refresh journal in MongoDB.
type RefreshEventsRepository struct {
	collection *mongo.Collection
}

// NewRefreshEventsRepository creates a new refresh journal repository.
func NewRefreshEventsRepository(db *MongoDB) *RefreshEventsRepository {
	return &RefreshEventsRepository{
		collection: db.RefreshEvents,
	}
}

// Create inserts a refresh event, assigning ID and timestamp when unset.
func (r *RefreshEventsRepository) Create(ctx context.Context, event *model.RefreshEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// List returns the most recent refresh events, newest first.
func (r *RefreshEventsRepository) List(ctx context.Context, limit int) ([]model.RefreshEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	events := []model.RefreshEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
