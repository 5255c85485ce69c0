package patient

import (
	"context"
	"errors"
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
	return &Repository{collection: database.Collection(db.PatientsCollection)}
}

var byPatientIDDesc = bson.D{{Key: "patientId", Value: -1}}

func (r *Repository) LastPatientID(ctx context.Context) (string, error) {
	opts := options.FindOne().
		SetSort(byPatientIDDesc).
		SetCollation(db.PatientIDCollation).
		SetProjection(bson.M{"patientId": 1})

	var last Patient
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last patient id: %w", err)
	}
	return last.PatientID, nil
}

func (r *Repository) Create(ctx context.Context, patient *Patient) error {
	result, err := r.collection.InsertOne(ctx, patient)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	patient.ID = id
	return nil
}

// ListByUser sorts with the numeric collation, which also applies to the
// userId filter and can equate ids that differ only in leading zeros of a
// digit run, so results are narrowed to exact owner matches.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int64) ([]Patient, error) {
	opts := options.Find().
		SetSort(byPatientIDDesc).
		SetCollation(db.PatientIDCollation).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer cursor.Close(ctx)

	var matched []Patient
	if err := cursor.All(ctx, &matched); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}

	patients := make([]Patient, 0, len(matched))
	for _, p := range matched {
		if p.UserID == userID {
			patients = append(patients, p)
		}
	}
	return patients, nil
}

// GetByPatientID matches patientId exactly, without the numeric collation.
func (r *Repository) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	var patient Patient
	err := r.collection.FindOne(ctx, bson.M{"patientId": patientID}).Decode(&patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &patient, nil
}
