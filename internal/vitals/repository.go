package vitals

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(database *mongo.Database) *Repository {
	return &Repository{collection: database.Collection(db.VitalsCollection)}
}

func (r *Repository) Create(ctx context.Context, vital *Vital) error {
	result, err := r.collection.InsertOne(ctx, vital)
	if err != nil {
		return fmt.Errorf("failed to insert vital: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	vital.ID = id
	return nil
}

// CreateMany inserts all readings in one round trip and returns how many
// were stored. The driver rejects an empty InsertMany, so none is sent.
func (r *Repository) CreateMany(ctx context.Context, vitals []*Vital) (int, error) {
	if len(vitals) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(vitals))
	for i, v := range vitals {
		docs[i] = v
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vitals: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if id, ok := insertedID.(primitive.ObjectID); ok {
			vitals[i].ID = id
		}
	}
	return len(result.InsertedIDs), nil
}

// ListByPatient returns readings in ascending timestamp order. Timestamps
// are compared as strings.
func (r *Repository) ListByPatient(ctx context.Context, patientID string, limit int64) ([]Vital, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query vitals: %w", err)
	}
	defer cursor.Close(ctx)

	vitals := []Vital{}
	if err := cursor.All(ctx, &vitals); err != nil {
		return nil, fmt.Errorf("failed to decode vitals: %w", err)
	}
	return vitals, nil
}

// Update replaces every caller-owned field of the reading. id and createdAt
// are left untouched.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, req VitalRequest) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": req})
	if err != nil {
		return fmt.Errorf("failed to update vital: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrVitalNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vital: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrVitalNotFound
	}
	return nil
}
