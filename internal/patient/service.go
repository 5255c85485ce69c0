package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/rs/zerolog"
)

// MaxListedPatients caps ListPatients
const MaxListedPatients = 1000

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the patient registry. publisher and metrics may be nil.
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) NextPatientID(ctx context.Context) (string, error) {
	last, err := s.repo.LastPatientID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get next patient id: %w", err)
	}
	return NextPatientID(last)
}

// CreatePatient allocates the next patientId and stores the record. Two
// concurrent calls can read the same maximum and store the same patientId;
// there is no counter document serialising allocation.
func (s *Service) CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.NormalizeHeight()

	patientID, err := s.NextPatientID(ctx)
	if err != nil {
		return nil, err
	}

	patient := req.toPatient(patientID, db.Timestamp(s.now()))
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patient.PatientID).
		Str("user_id", patient.UserID).
		Msg("patient registered")
	if s.metrics != nil {
		s.metrics.RecordPatientOperation(ctx, "create")
	}
	s.publishCreated(ctx, patient)

	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, userID string) ([]Patient, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	patients, err := s.repo.ListByUser(ctx, userID, MaxListedPatients)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*Patient, error) {
	patient, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) publishCreated(ctx context.Context, patient *Patient) {
	if s.publisher == nil {
		return
	}
	event := messaging.PatientCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventPatientCreated),
		Data: messaging.PatientCreatedData{
			ID:               patient.ID.Hex(),
			PatientID:        patient.PatientID,
			UserID:           patient.UserID,
			HasSepsis:        patient.HasSepsis,
			MonitoringMethod: patient.MonitoringMethod,
			CreatedAt:        patient.CreatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventPatientCreated, event); err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patient.PatientID).Msg("failed to publish patient.created event")
	}
}
