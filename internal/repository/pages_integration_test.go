//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func seedPages(t *testing.T, db *MongoDB) {
	t.Helper()
	docs := []interface{}{
		bson.D{{Key: "position", Value: 2}, {Key: "object", Value: "page"}, {Key: "id", Value: "p2"}, {Key: "properties", Value: categoryDoc("B")}},
		bson.D{{Key: "position", Value: 1}, {Key: "object", Value: "page"}, {Key: "id", Value: "p1"}, {Key: "properties", Value: categoryDoc("A")}},
		bson.D{{Key: "position", Value: 3}, {Key: "object", Value: "page"}, {Key: "id", Value: "p3"}, {Key: "properties", Value: categoryDoc("A", "B")}},
	}
	_, err := db.Pages.InsertMany(context.Background(), docs)
	require.NoError(t, err)
}

func pageIDs(t *testing.T, repo *MongoContentRepository, filter *ContentFilter) []string {
	t.Helper()
	col, err := repo.Query(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, "list", col.Object)
	assert.False(t, col.HasMore)

	ids := make([]string, 0, col.Len())
	for _, p := range col.Results {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestMongoContentRepository_Query(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	seedPages(t, db)

	repo := NewMongoContentRepository(db)
	assert.Equal(t, "mongodb", repo.Name())

	tests := []struct {
		name     string
		filter   *ContentFilter
		expected []string
	}{
		{name: "all pages ordered by position", filter: nil, expected: []string{"p1", "p2", "p3"}},
		{name: "category A", filter: CategoryFilter("A"), expected: []string{"p1", "p3"}},
		{name: "category B", filter: CategoryFilter("B"), expected: []string{"p2", "p3"}},
		{name: "labels are case sensitive", filter: CategoryFilter("a"), expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pageIDs(t, repo, tt.filter))
		})
	}
}

func TestMongoContentRepository_EmptyCollection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	col, err := NewMongoContentRepository(db).Query(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, col.Results)
	assert.Equal(t, 0, col.Len())
}
