package patient

import "context"

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	// LastPatientID returns the highest patientId issued, or "" when empty.
	LastPatientID(ctx context.Context) (string, error)
	Create(ctx context.Context, patient *Patient) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]Patient, error)
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
