package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/jonboulle/clockwork"
)

type SeasonService interface {
	CreateSeason(ctx context.Context, input CreateSeasonInput) (*models.Season, error)
	GetSeason(ctx context.Context, id int) (*models.Season, error)
	ListSeasons(ctx context.Context) ([]models.Season, error)
	GetActiveSeason(ctx context.Context) (*models.Season, error)
	// ActivateSeason makes id the only active season.
	ActivateSeason(ctx context.Context, id int) (*models.Season, error)
	DeleteSeason(ctx context.Context, id int) error
}

type CreateSeasonInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type seasonService struct {
	seasonRepo repositories.SeasonRepository
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewSeasonService(seasonRepo repositories.SeasonRepository, clock clockwork.Clock, logger *slog.Logger) SeasonService {
	logger = loggerOrDefault(logger)
	return &seasonService{
		seasonRepo: seasonRepo,
		clock:      clock,
		logger:     logger,
	}
}

func (s *seasonService) CreateSeason(ctx context.Context, input CreateSeasonInput) (*models.Season, error) {
	verr := newValidationError()
	name := strings.TrimSpace(input.Name)
	if name == "" {
		verr.Add("name", "must be provided")
	}
	if input.StartDate.IsZero() {
		verr.Add("start_date", "must be provided")
	}
	if input.EndDate.IsZero() {
		verr.Add("end_date", "must be provided")
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		verr.Add("end_date", "must not be before start_date")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	season := &models.Season{
		Name:      name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		if errors.Is(err, repositories.ErrSeasonNameConflict) {
			return nil, ErrSeasonNameConflict
		}
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return season, nil
}

func (s *seasonService) GetSeason(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, notFound("season", id)
		}
		return nil, fmt.Errorf("failed to get season by id %d: %w", id, err)
	}
	return season, nil
}

func (s *seasonService) ListSeasons(ctx context.Context) ([]models.Season, error) {
	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	if seasons == nil {
		return []models.Season{}, nil
	}
	return seasons, nil
}

func (s *seasonService) GetActiveSeason(ctx context.Context) (*models.Season, error) {
	season, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, ErrNoActiveSeason
		}
		return nil, fmt.Errorf("failed to get active season: %w", err)
	}
	return season, nil
}

func (s *seasonService) ActivateSeason(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.Activate(ctx, id, s.clock.Now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSeasonNotFound):
			return nil, notFound("season", id)
		case errors.Is(err, repositories.ErrSeasonActivationConflict):
			return nil, ErrSeasonActivationConflict
		default:
			return nil, fmt.Errorf("failed to activate season %d: %w", id, err)
		}
	}
	s.logger.InfoContext(ctx, "season activated", slog.Int("season_id", id))
	return season, nil
}

func (s *seasonService) DeleteSeason(ctx context.Context, id int) error {
	err := s.seasonRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSeasonNotFound):
			return notFound("season", id)
		case errors.Is(err, repositories.ErrSeasonInUse):
			return ErrSeasonInUse
		default:
			return fmt.Errorf("failed to delete season %d: %w", id, err)
		}
	}
	return nil
}
