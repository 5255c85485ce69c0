package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultTestMongoURL is used when MONGO_TEST_URL is not set
const DefaultTestMongoURL = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB and returns a fresh database with
// the service indexes. The database is dropped when the test ends.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		uri = DefaultTestMongoURL
	}

	dbName := fmt.Sprintf("vitals_test_%d", time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, database, err := db.Connect(ctx, uri, dbName, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.EnsureIndexes(ctx, database); err != nil {
		client.Disconnect(context.Background())
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database %s: %v", dbName, err)
		}
		client.Disconnect(ctx)
	})

	return database
}
