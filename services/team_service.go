package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, seasonID int, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	ListSeasonTeams(ctx context.Context, seasonID int) ([]models.Team, error)
}

type CreateTeamInput struct {
	Name     string
	Category models.Category
	IsActive *bool
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	seasonRepo repositories.SeasonRepository
}

func NewTeamService(teamRepo repositories.TeamRepository, seasonRepo repositories.SeasonRepository) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		seasonRepo: seasonRepo,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, seasonID int, input CreateTeamInput) (*models.Team, error) {
	verr := newValidationError()
	name := strings.TrimSpace(input.Name)
	if name == "" {
		verr.Add("name", "must be provided")
	}
	if !input.Category.IsValid() {
		verr.Add("category", unknownCategoryMessage())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, notFound("season", seasonID)
		}
		return nil, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}

	team := &models.Team{
		SeasonID: seasonID,
		Category: input.Category,
		Name:     name,
		IsActive: true,
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamSeasonInvalid):
			return nil, notFound("season", seasonID)
		default:
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
	}
	team.Season = season
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, notFound("team", id)
		}
		return nil, fmt.Errorf("failed to get team by id %d: %w", id, err)
	}

	season, err := s.seasonRepo.GetByID(ctx, team.SeasonID)
	if err == nil {
		team.Season = season
	} else if !errors.Is(err, repositories.ErrSeasonNotFound) {
		return nil, fmt.Errorf("failed to load season of team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) ListSeasonTeams(ctx context.Context, seasonID int) ([]models.Team, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, notFound("season", seasonID)
		}
		return nil, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of season %d: %w", seasonID, err)
	}
	if teams == nil {
		return []models.Team{}, nil
	}
	return teams, nil
}
