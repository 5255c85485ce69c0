package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

// Collection names
const (
	UsersCollection    = "users"
	PatientsCollection = "patients"
	VitalsCollection   = "vitals"
)

const connectTimeout = 10 * time.Second

// PatientIDCollation orders patientId strings by their numeric suffix so
// "PT1000" sorts after "PT999". Queries sorting on patientId must use it to
// hit the patientId index. Equality lookups must not use it: numeric
// collation treats "PT1" and "PT001" as equal.
var PatientIDCollation = &options.Collation{Locale: "en", NumericOrdering: true}

// Connect creates a MongoDB client with OpenTelemetry command monitoring and
// returns it together with the named database.
func Connect(ctx context.Context, uri, dbName string, logger zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	if uri == "" || dbName == "" {
		return nil, nil, fmt.Errorf("missing required database settings")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(25).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().Str("database", dbName).Msg("connected to MongoDB")
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the service relies on. It is idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	// patientId is not unique: allocation is read-then-insert and
	// a lost race must still store the record.
	_, err = database.Collection(PatientsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "patientId", Value: -1}},
			Options: options.Index().SetName("patient_id_numeric").SetCollation(PatientIDCollation),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}},
			Options: options.Index().SetName("patient_id_exact"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "patientId", Value: -1}},
			Options: options.Index().SetName("user_patients").SetCollation(PatientIDCollation),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create patients indexes: %w", err)
	}

	_, err = database.Collection(VitalsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "patientId", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetName("patient_timeline"),
	})
	if err != nil {
		return fmt.Errorf("failed to create vitals index: %w", err)
	}

	return nil
}

// Ping reports whether the database answers within the context deadline.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, nil)
}

// Timestamp renders t the way createdAt values are stored: UTC ISO-8601
// with microseconds and no zone suffix.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000")
}
