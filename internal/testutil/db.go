package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/commitchain/commitchaind/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// SetupTestDB connects to the test MongoDB instance and returns a database
// scoped to the current test. The database is dropped when the test finishes.
//
// The connection URI comes from COMMITCHAIN_TEST_MONGO_URI and defaults to a
// local instance. Tests are skipped when no instance is reachable, so the
// suite stays runnable on machines without Mongo.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("COMMITCHAIN_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test mongo at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skipf("skipping: test mongo at %s not reachable: %v", uri, err)
	}

	name := fmt.Sprintf("commitchain_test_%d", time.Now().UnixNano())
	db := client.Database(name)

	// The stores lean on unique indexes for their duplicate checks.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure test indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", name, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a sensible timeout for one test case.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
