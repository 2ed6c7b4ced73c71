// Package repository provides the content sources (Notion and MongoDB) and
// the refresh journal storage.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig tunes the MongoDB client. The service reads a small
// collection and appends journal events, so the pool stays small.
type MongoConfig struct {
	AppName        string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	MaxIdle        time.Duration
	ConnectTimeout time.Duration
	// SelectTimeout bounds the wait for a usable server, so calls fail fast
	// while MongoDB is unreachable and the circuit breaker can open.
	SelectTimeout time.Duration
	// OpTimeout is the client-wide deadline of a single operation when the
	// caller's context has none.
	OpTimeout  time.Duration
	Compressed bool
}

// DefaultMongoConfig returns the client settings used by the service.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		AppName:        "nav-service",
		MaxPoolSize:    20,
		MinPoolSize:    2,
		MaxIdle:        5 * time.Minute,
		ConnectTimeout: 10 * time.Second,
		SelectTimeout:  3 * time.Second,
		OpTimeout:      15 * time.Second,
		Compressed:     true,
	}
}

func (c MongoConfig) clientOptions(uri string) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName(c.AppName).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxIdle).
		SetConnectTimeout(c.ConnectTimeout).
		SetServerSelectionTimeout(c.SelectTimeout).
		SetTimeout(c.OpTimeout).
		SetRetryReads(true).
		SetRetryWrites(true)
	if c.Compressed {
		opts.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}
	return opts
}

// DefaultPagesCollection is the collection holding directory pages.
const DefaultPagesCollection = "pages"

// refreshEventsCollection holds the refresh journal.
const refreshEventsCollection = "refresh_events"

// MongoDB bundles the client with the collections the service uses.
type MongoDB struct {
	Client        *mongo.Client
	Database      *mongo.Database
	Pages         *mongo.Collection
	RefreshEvents *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName, pagesCollection string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, pagesCollection, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings the server and ensures the indexes
// exist. An empty pagesCollection selects DefaultPagesCollection.
func NewMongoDBWithConfig(uri, databaseName, pagesCollection string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	m := newMongoDB(client, databaseName, pagesCollection)
	if err := client.Ping(ctx, nil); err != nil {
		_ = m.Close(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	if err := m.createIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}
	return m, nil
}

func newMongoDB(client *mongo.Client, databaseName, pagesCollection string) *MongoDB {
	if pagesCollection == "" {
		pagesCollection = DefaultPagesCollection
	}
	db := client.Database(databaseName)
	return &MongoDB{
		Client:        client,
		Database:      db,
		Pages:         db.Collection(pagesCollection),
		RefreshEvents: db.Collection(refreshEventsCollection),
	}
}

// createIndexes creates the page indexes used by the mongodb content source
// and the journal lookup index.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	pageIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: categoryNamePath(model.CategoryProperty), Value: 1}},
			Options: options.Index().SetName("category_name"),
		},
		{
			Keys:    bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("listing_order"),
		},
	}
	if _, err := m.Pages.Indexes().CreateMany(ctx, pageIndexes); err != nil {
		return fmt.Errorf("create page indexes: %w", err)
	}

	requestIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "request_id", Value: 1}},
		Options: options.Index().SetName("request_id").SetSparse(true),
	}
	if _, err := m.RefreshEvents.Indexes().CreateOne(ctx, requestIDIndex); err != nil {
		return fmt.Errorf("create refresh event indexes: %w", err)
	}
	return nil
}

// refreshEventsTTLIndex names the TTL index on refresh event timestamps.
// It also serves the newest-first journal listing.
const refreshEventsTTLIndex = "timestamp_ttl"

// SetRefreshEventsTTL makes refresh events expire ttl after their timestamp.
// A non-positive ttl keeps events forever.
func (m *MongoDB) SetRefreshEventsTTL(ctx context.Context, ttl time.Duration) error {
	// The index may not exist yet.
	_, _ = m.RefreshEvents.Indexes().DropOne(ctx, refreshEventsTTLIndex)

	index := options.Index().SetName(refreshEventsTTLIndex)
	if ttl > 0 {
		index.SetExpireAfterSeconds(int32(ttl / time.Second))
	}
	_, err := m.RefreshEvents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: index,
	})
	if err != nil {
		return fmt.Errorf("set refresh events TTL: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary within ctx.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}
