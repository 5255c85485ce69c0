package users

import "context"

// ServiceInterface defines the contract for signup and login
type ServiceInterface interface {
	Signup(ctx context.Context, req SignupRequest) (*UserSummary, error)
	Login(ctx context.Context, req LoginRequest) (*UserSummary, error)
}

// MetricsRecorder interface for recording identity metrics
type MetricsRecorder interface {
	RecordUserOperation(ctx context.Context, operation string)
	RecordAuthFailure(ctx context.Context, reason string)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
