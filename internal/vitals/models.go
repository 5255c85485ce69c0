package vitals

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Temperature bounds accepted for any reading, in °C
const (
	MinTemperature = 20.0
	MaxTemperature = 60.0
)

// Vital is one time-stamped set of readings for a patient. Measurement
// fields are nil when not taken and are stored as null.
type Vital struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID          string             `bson:"patientId" json:"patientId"`
	Timestamp          string             `bson:"timestamp" json:"timestamp"`
	TrialDeviceReading *float64           `bson:"trialDeviceReading" json:"trialDeviceReading"`
	ProbeReading       *float64           `bson:"probeReading" json:"probeReading"`
	RoomTemperature    *float64           `bson:"roomTemperature" json:"roomTemperature"`
	BodyTemperature    *float64           `bson:"bodyTemperature" json:"bodyTemperature"`
	HeartRate          *int               `bson:"heartRate" json:"heartRate"`
	SpO2               *int               `bson:"spo2" json:"spo2"`
	BloodPressure      string             `bson:"bloodPressure" json:"bloodPressure"`
	Medications        string             `bson:"medications" json:"medications"`
	CreatedAt          string             `bson:"createdAt" json:"createdAt"`
}

// VitalRequest carries the caller-supplied fields of a reading. It is used
// for create, bulk create and full-replace update; its bson form is the
// $set document of an update.
type VitalRequest struct {
	PatientID          string   `bson:"patientId" json:"patientId"`
	Timestamp          string   `bson:"timestamp" json:"timestamp"`
	TrialDeviceReading *float64 `bson:"trialDeviceReading" json:"trialDeviceReading"`
	ProbeReading       *float64 `bson:"probeReading" json:"probeReading"`
	RoomTemperature    *float64 `bson:"roomTemperature" json:"roomTemperature"`
	BodyTemperature    *float64 `bson:"bodyTemperature" json:"bodyTemperature"`
	HeartRate          *int     `bson:"heartRate" json:"heartRate"`
	SpO2               *int     `bson:"spo2" json:"spo2"`
	BloodPressure      string   `bson:"bloodPressure" json:"bloodPressure"`
	Medications        string   `bson:"medications" json:"medications"`
}

// BulkResponse is the body of POST /vitals/bulk
type BulkResponse struct {
	InsertedCount int `json:"inserted_count"`
}

// SuccessResponse is the body of update and delete
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Validate validates the reading
func (r *VitalRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatientID
	}
	if strings.TrimSpace(r.Timestamp) == "" {
		return ErrMissingTimestamp
	}

	// Room temperature is ambient and not range checked.
	temperatures := []struct {
		name  string
		value *float64
	}{
		{"trialDeviceReading", r.TrialDeviceReading},
		{"probeReading", r.ProbeReading},
		{"bodyTemperature", r.BodyTemperature},
	}
	for _, temp := range temperatures {
		if temp.value == nil {
			continue
		}
		if *temp.value < MinTemperature || *temp.value > MaxTemperature {
			return fmt.Errorf("%s %.1f: %w", temp.name, *temp.value, ErrTemperatureOutOfRange)
		}
	}

	if (r.HeartRate != nil && *r.HeartRate < 0) || (r.SpO2 != nil && *r.SpO2 < 0) {
		return ErrNegativeMeasurement
	}
	return nil
}

func (r *VitalRequest) toVital(createdAt string) *Vital {
	return &Vital{
		PatientID:          r.PatientID,
		Timestamp:          r.Timestamp,
		TrialDeviceReading: r.TrialDeviceReading,
		ProbeReading:       r.ProbeReading,
		RoomTemperature:    r.RoomTemperature,
		BodyTemperature:    r.BodyTemperature,
		HeartRate:          r.HeartRate,
		SpO2:               r.SpO2,
		BloodPressure:      r.BloodPressure,
		Medications:        r.Medications,
		CreatedAt:          createdAt,
	}
}
