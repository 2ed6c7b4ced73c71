//go:build integration

// Package testutil provides the MongoDB fixture shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// MongoImage is the image used for MongoDB integration tests.
	MongoImage = "mongo:7.0"

	// MongoURIEnv points the tests at an existing server instead of a container.
	MongoURIEnv = "TEST_MONGODB_URI"
)

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB creates and starts a MongoDB testcontainer.
// Prefer RunWithMongoDB in TestMain to reuse one server per package.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, MongoImage)
	if err != nil {
		return nil, fmt.Errorf("start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("MongoDB connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the MongoDB container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate MongoDB container: %w", err)
	}
	return nil
}

var shared struct {
	mu        sync.RWMutex
	uri       string
	container *MongoDBContainer
}

var dbCounter atomic.Int64

// RunWithMongoDB runs the package tests against one MongoDB server: the one
// named by TEST_MONGODB_URI, or a container started for the run.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(m))
//	}
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()

	shared.mu.Lock()
	if uri := os.Getenv(MongoURIEnv); uri != "" {
		shared.uri = uri
	} else {
		container, err := SetupMongoDB(ctx)
		if err != nil {
			shared.mu.Unlock()
			fmt.Fprintf(os.Stderr, "integration tests need MongoDB: %v\n", err)
			return 1
		}
		shared.container, shared.uri = container, container.URI
	}
	shared.mu.Unlock()

	code := m.Run()

	if err := shared.container.Cleanup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return code
}

// MongoURI returns the URI of the shared MongoDB server.
// It panics outside a RunWithMongoDB run.
func MongoURI() string {
	shared.mu.RLock()
	defer shared.mu.RUnlock()

	if shared.uri == "" {
		panic("testutil: MongoDB not started, call RunWithMongoDB from TestMain")
	}
	return shared.uri
}

// DatabaseName returns a database name unique to t and drops that
// database when t finishes.
func DatabaseName(t testing.TB) string {
	t.Helper()
	name := sanitizeDBName(t.Name(), dbCounter.Add(1))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(MongoURI()))
		if err != nil {
			t.Logf("drop %s: %v", name, err)
			return
		}
		defer func() { _ = client.Disconnect(ctx) }()
		if err := client.Database(name).Drop(ctx); err != nil {
			t.Logf("drop %s: %v", name, err)
		}
	})
	return name
}

// sanitizeDBName maps characters MongoDB rejects in database names to
// underscores and keeps the name within the 63 byte limit.
func sanitizeDBName(testName string, seq int64) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$', '*', '<', '>', ':', '|', '?':
			return '_'
		}
		if r > 0x7e {
			return '_'
		}
		return r
	}, testName)

	if len(sanitized) > 48 {
		sanitized = sanitized[:48]
	}
	return fmt.Sprintf("%s_%d", sanitized, seq)
}
