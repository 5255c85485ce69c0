package vitals

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepositoryInterface defines the contract for vital reading data access
type RepositoryInterface interface {
	Create(ctx context.Context, vital *Vital) error
	CreateMany(ctx context.Context, vitals []*Vital) (int, error)
	ListByPatient(ctx context.Context, patientID string, limit int64) ([]Vital, error)
	Update(ctx context.Context, id primitive.ObjectID, req VitalRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
