package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/rs/zerolog"
)

// PatientLookup is the part of the patient registry the export reads
type PatientLookup interface {
	GetPatient(ctx context.Context, patientID string) (*patient.Patient, error)
}

// VitalsLister is the part of the vitals ledger the export reads
type VitalsLister interface {
	ListVitals(ctx context.Context, patientID string) ([]vitals.Vital, error)
}

// MetricsRecorder interface for recording export metrics
type MetricsRecorder interface {
	RecordExport(ctx context.Context, rows int)
}

// ServiceInterface defines the contract for spreadsheet export
type ServiceInterface interface {
	ExportVitals(ctx context.Context, patientID string) (*Workbook, error)
}

// Workbook is a rendered export ready to be sent as an attachment
type Workbook struct {
	Filename string
	Content  []byte
	Rows     int
}

type Service struct {
	patients  PatientLookup
	vitals    VitalsLister
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewService wires the export formatter. publisher and metrics may be nil.
func NewService(patients PatientLookup, vitals VitalsLister, publisher messaging.PublisherInterface, metrics MetricsRecorder, logger zerolog.Logger) *Service {
	return &Service{
		patients:  patients,
		vitals:    vitals,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

func (s *Service) ExportVitals(ctx context.Context, patientID string) (*Workbook, error) {
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	readings, err := s.vitals.ListVitals(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vitals: %w", err)
	}

	content, err := RenderVitals(p, readings)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{
		Filename: Filename(patientID),
		Content:  content,
		Rows:     len(readings),
	}

	s.logger.Info().
		Str("patient_id", patientID).
		Int("rows", wb.Rows).
		Int("bytes", len(content)).
		Msg("vitals exported")
	if s.metrics != nil {
		s.metrics.RecordExport(ctx, wb.Rows)
	}
	s.publishExported(ctx, patientID, wb)

	return wb, nil
}

func (s *Service) publishExported(ctx context.Context, patientID string, wb *Workbook) {
	if s.publisher == nil {
		return
	}
	event := messaging.VitalsExportedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVitalsExported),
		Data: messaging.VitalsExportedData{
			PatientID: patientID,
			Rows:      wb.Rows,
			Filename:  wb.Filename,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventVitalsExported, event); err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("failed to publish vitals.exported event")
	}
}
