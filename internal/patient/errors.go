package patient

import "errors"

var (
	ErrPatientNotFound         = errors.New("Patient not found")
	ErrInvalidPatientID        = errors.New("invalid patient id")
	ErrMissingUserID           = errors.New("userId is required")
	ErrMissingGender           = errors.New("gender is required")
	ErrMissingMonitoringMethod = errors.New("monitoringMethod is required")
	ErrNegativeAge             = errors.New("age must not be negative")
	ErrNegativeMeasurement     = errors.New("weight and height must not be negative")
)
