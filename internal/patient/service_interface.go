package patient

import "context"

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	NextPatientID(ctx context.Context) (string, error)
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error)
	ListPatients(ctx context.Context, userID string) ([]Patient, error)
	GetPatient(ctx context.Context, patientID string) (*Patient, error)
}

// MetricsRecorder interface for recording patient metrics
type MetricsRecorder interface {
	RecordPatientOperation(ctx context.Context, operation string)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
