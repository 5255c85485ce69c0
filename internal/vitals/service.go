package vitals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxListedVitals caps ListVitals
const MaxListedVitals = 10000

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the vitals ledger. publisher and metrics may be nil.
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateVital stores one reading. The patient is not checked for existence.
func (s *Service) CreateVital(ctx context.Context, req VitalRequest) (*Vital, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vital := req.toVital(db.Timestamp(s.now()))
	if err := s.repo.Create(ctx, vital); err != nil {
		return nil, fmt.Errorf("failed to create vital: %w", err)
	}

	s.logger.Debug().
		Str("vital_id", vital.ID.Hex()).
		Str("patient_id", vital.PatientID).
		Msg("vital recorded")
	s.record(ctx, "create", 1)
	s.publish(ctx, messaging.EventVitalRecorded, messaging.VitalEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVitalRecorded),
		Data: messaging.VitalEventData{
			VitalID:   vital.ID.Hex(),
			PatientID: vital.PatientID,
			Timestamp: vital.Timestamp,
		},
	})

	return vital, nil
}

// CreateVitalsBulk validates every reading before storing any of them, then
// inserts them together. All readings share one createdAt.
func (s *Service) CreateVitalsBulk(ctx context.Context, reqs []VitalRequest) (int, error) {
	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			return 0, fmt.Errorf("reading %d: %w", i, err)
		}
	}

	createdAt := db.Timestamp(s.now())
	vitals := make([]*Vital, len(reqs))
	for i := range reqs {
		vitals[i] = reqs[i].toVital(createdAt)
	}

	count, err := s.repo.CreateMany(ctx, vitals)
	if err != nil {
		return 0, fmt.Errorf("failed to create vitals: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	s.logger.Info().Int("count", count).Msg("vitals bulk recorded")
	s.record(ctx, "bulk_create", count)
	s.publish(ctx, messaging.EventVitalsBulkRecorded, messaging.VitalsBulkRecordedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVitalsBulkRecorded),
		Data: messaging.VitalsBulkRecordedData{
			PatientIDs:    distinctPatientIDs(vitals),
			InsertedCount: count,
		},
	})

	return count, nil
}

func (s *Service) ListVitals(ctx context.Context, patientID string) ([]Vital, error) {
	vitals, err := s.repo.ListByPatient(ctx, patientID, MaxListedVitals)
	if err != nil {
		return nil, fmt.Errorf("failed to list vitals: %w", err)
	}
	return vitals, nil
}

func (s *Service) UpdateVital(ctx context.Context, vitalID string, req VitalRequest) error {
	id, err := parseVitalID(vitalID)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		if errors.Is(err, ErrVitalNotFound) {
			return err
		}
		return fmt.Errorf("failed to update vital: %w", err)
	}

	s.record(ctx, "update", 1)
	s.publish(ctx, messaging.EventVitalUpdated, messaging.VitalEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVitalUpdated),
		Data: messaging.VitalEventData{
			VitalID:   vitalID,
			PatientID: req.PatientID,
			Timestamp: req.Timestamp,
		},
	})
	return nil
}

func (s *Service) DeleteVital(ctx context.Context, vitalID string) error {
	id, err := parseVitalID(vitalID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrVitalNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete vital: %w", err)
	}

	s.record(ctx, "delete", 1)
	s.publish(ctx, messaging.EventVitalDeleted, messaging.VitalEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVitalDeleted),
		Data:      messaging.VitalEventData{VitalID: vitalID},
	})
	return nil
}

func parseVitalID(vitalID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vitalID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidVitalID, vitalID)
	}
	return id, nil
}

func distinctPatientIDs(vitals []*Vital) []string {
	seen := make(map[string]struct{}, len(vitals))
	ids := make([]string, 0, len(vitals))
	for _, v := range vitals {
		if _, ok := seen[v.PatientID]; ok {
			continue
		}
		seen[v.PatientID] = struct{}{}
		ids = append(ids, v.PatientID)
	}
	sort.Strings(ids)
	return ids
}

func (s *Service) record(ctx context.Context, operation string, count int) {
	if s.metrics != nil {
		s.metrics.RecordVitalOperation(ctx, operation, count)
	}
}

func (s *Service) publish(ctx context.Context, routingKey string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish vitals event")
	}
}
