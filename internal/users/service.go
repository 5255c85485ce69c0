package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       RepositoryInterface
	publisher  messaging.PublisherInterface
	metrics    MetricsRecorder
	logger     zerolog.Logger
	bcryptCost int
	now        func() time.Time
}

// NewService wires the identity service. publisher and metrics may be nil.
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*UserSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: db.Timestamp(s.now()),
	}

	// The lookup above and this insert can interleave with another signup;
	// the unique email index turns the loser into ErrEmailAlreadyRegistered.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("user registered")
	if s.metrics != nil {
		s.metrics.RecordUserOperation(ctx, "signup")
	}
	s.publishRegistered(ctx, user)

	return user.Summary(), nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*UserSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		s.recordAuthFailure(ctx, "unknown_email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := checkPassword(user.Password, req.Password); err != nil {
		s.recordAuthFailure(ctx, "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	if s.metrics != nil {
		s.metrics.RecordUserOperation(ctx, "login")
	}
	return user.Summary(), nil
}

func (s *Service) recordAuthFailure(ctx context.Context, reason string) {
	s.logger.Debug().Str("reason", reason).Msg("login rejected")
	if s.metrics != nil {
		s.metrics.RecordAuthFailure(ctx, reason)
	}
}

func (s *Service) publishRegistered(ctx context.Context, user *User) {
	if s.publisher == nil {
		return
	}
	event := messaging.UserRegisteredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventUserRegistered),
		Data: messaging.UserRegisteredData{
			UserID:   user.ID.Hex(),
			FullName: user.FullName,
			Email:    user.Email,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventUserRegistered, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish user.registered event")
	}
}
