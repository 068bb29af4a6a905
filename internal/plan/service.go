package plan

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/itinerary"
)

// ServiceConfig holds configuration for the plan service.
type ServiceConfig struct {
	// Repository is the plan persistence layer.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service manages saved itineraries.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new plan service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Save stores an itinerary for the user and returns the created plan.
func (s *Service) Save(ctx context.Context, userID, title string, it itinerary.Itinerary) (*Plan, error) {
	p := &Plan{
		ID:        NewPlanID(),
		UserID:    userID,
		Title:     title,
		Itinerary: it,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save plan")
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", p.ID).
		Str("user_id", userID).
		Int("activities", p.Itinerary.Stats.Activities).
		Msg("plan saved")

	return p, nil
}

// Get retrieves one of the user's plans.
func (s *Service) Get(ctx context.Context, userID, planID string) (*Plan, error) {
	return s.repo.GetByID(ctx, userID, planID)
}

// List returns the user's plans, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Plan, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes one of the user's plans.
func (s *Service) Delete(ctx context.Context, userID, planID string) error {
	if err := s.repo.Delete(ctx, userID, planID); err != nil {
		return err
	}

	s.logger.Info().
		Str("plan_id", planID).
		Str("user_id", userID).
		Msg("plan deleted")

	return nil
}
