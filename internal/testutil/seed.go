//go:build integration

package testutil

import (
	"context"
	"fmt"

	"github.com/guttosm/nav-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedPages stores pages in the pages collection in the given order.
// Each page is stored in its JSON shape with a position field.
func SeedPages(ctx context.Context, pages *mongo.Collection, items ...model.Page) error {
	docs := make([]interface{}, 0, len(items))
	for i, p := range items {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(p.Raw(), false, &doc); err != nil {
			return fmt.Errorf("page %q: %w", p.ID, err)
		}
		doc = append(bson.D{{Key: "position", Value: i}}, doc...)
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := pages.InsertMany(ctx, docs)
	return err
}
