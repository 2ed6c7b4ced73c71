package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guttosm/nav-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContentRepository serves directory pages stored in a MongoDB
// collection. Documents use the Notion page shape, so the category labels
// live under properties.Category.multi_select[].name.
type MongoContentRepository struct {
	collection *mongo.Collection
}

// NewMongoContentRepository creates a new MongoDB content source.
func NewMongoContentRepository(db *MongoDB) *MongoContentRepository {
	return &MongoContentRepository{
		collection: db.Pages,
	}
}

// Name returns the source name.
func (r *MongoContentRepository) Name() string {
	return "mongodb"
}

// Query returns all matching pages ordered by position, then insertion order.
func (r *MongoContentRepository) Query(ctx context.Context, filter *ContentFilter) (*model.PageCollection, error) {
	query := bson.D{}
	if filter != nil {
		query = append(query, bson.E{Key: categoryNamePath(filter.Property), Value: filter.Contains})
	}

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]model.Page, 0, len(docs))
	for _, doc := range docs {
		page, err := documentToPage(doc)
		if err != nil {
			return nil, err
		}
		results = append(results, page)
	}

	return &model.PageCollection{Object: "list", Results: results}, nil
}

// categoryNamePath is the dotted path matching a multi_select label.
func categoryNamePath(property string) string {
	return "properties." + property + ".multi_select.name"
}

// documentToPage converts a stored document to a page, exposing the
// document _id as "id" unless the document carries its own.
func documentToPage(doc bson.D) (model.Page, error) {
	out := make(bson.D, 0, len(doc)+1)
	var id string
	hasID := false

	for _, e := range doc {
		switch e.Key {
		case "_id":
			if oid, ok := e.Value.(primitive.ObjectID); ok {
				id = oid.Hex()
			} else {
				id = fmt.Sprint(e.Value)
			}
		case "id":
			hasID = true
			out = append(out, e)
		default:
			out = append(out, e)
		}
	}
	if !hasID {
		out = append(bson.D{{Key: "id", Value: id}}, out...)
	}

	data, err := bson.MarshalExtJSON(out, false, false)
	if err != nil {
		return model.Page{}, fmt.Errorf("encode page %s: %w", id, err)
	}

	var page model.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return model.Page{}, err
	}
	return page, nil
}
