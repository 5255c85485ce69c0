package vitals

import "context"

// ServiceInterface defines the contract for the vitals ledger
type ServiceInterface interface {
	CreateVital(ctx context.Context, req VitalRequest) (*Vital, error)
	CreateVitalsBulk(ctx context.Context, reqs []VitalRequest) (int, error)
	ListVitals(ctx context.Context, patientID string) ([]Vital, error)
	UpdateVital(ctx context.Context, vitalID string, req VitalRequest) error
	DeleteVital(ctx context.Context, vitalID string) error
}

// MetricsRecorder interface for recording vitals metrics
type MetricsRecorder interface {
	RecordVitalOperation(ctx context.Context, operation string, count int)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
