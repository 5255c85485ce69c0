package vitals

import "errors"

var (
	ErrVitalNotFound         = errors.New("Vital not found")
	ErrInvalidVitalID        = errors.New("Invalid vital ID")
	ErrMissingPatientID      = errors.New("patientId is required")
	ErrMissingTimestamp      = errors.New("timestamp is required")
	ErrTemperatureOutOfRange = errors.New("temperature must be between 20 and 60 °C")
	ErrNegativeMeasurement   = errors.New("heart rate and SpO2 must not be negative")
)
