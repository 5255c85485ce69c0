package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// User events
	EventUserRegistered = "user.registered"

	// Patient events
	EventPatientCreated = "patient.created"

	// Vital events
	EventVitalRecorded      = "vital.recorded"
	EventVitalsBulkRecorded = "vitals.bulk_recorded"
	EventVitalUpdated       = "vital.updated"
	EventVitalDeleted       = "vital.deleted"
	EventVitalsExported     = "vitals.exported"
)

// ServiceName identifies this service in published events
const ServiceName = "vitals-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// UserRegisteredEvent is published after a caregiver signs up
type UserRegisteredEvent struct {
	BaseEvent
	Data UserRegisteredData `json:"data"`
}

type UserRegisteredData struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// PatientCreatedEvent represents a patient registration event
type PatientCreatedEvent struct {
	BaseEvent
	Data PatientCreatedData `json:"data"`
}

type PatientCreatedData struct {
	ID               string `json:"id"`
	PatientID        string `json:"patient_id"`
	UserID           string `json:"user_id"`
	HasSepsis        bool   `json:"has_sepsis"`
	MonitoringMethod string `json:"monitoring_method"`
	CreatedAt        string `json:"created_at"`
}

// VitalEvent covers single-reading changes (recorded, updated, deleted)
type VitalEvent struct {
	BaseEvent
	Data VitalEventData `json:"data"`
}

type VitalEventData struct {
	VitalID   string `json:"vital_id"`
	PatientID string `json:"patient_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// VitalsBulkRecordedEvent is published after a bulk insert
type VitalsBulkRecordedEvent struct {
	BaseEvent
	Data VitalsBulkRecordedData `json:"data"`
}

type VitalsBulkRecordedData struct {
	PatientIDs    []string `json:"patient_ids"`
	InsertedCount int      `json:"inserted_count"`
}

// VitalsExportedEvent records that a patient's readings left the system as a spreadsheet
type VitalsExportedEvent struct {
	BaseEvent
	Data VitalsExportedData `json:"data"`
}

type VitalsExportedData struct {
	PatientID string `json:"patient_id"`
	Rows      int    `json:"rows"`
	Filename  string `json:"filename"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}
