package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

// OpponentService keeps the informational records of external clubs. Their
// figures are typed in by hand and never derived from our matches.
type OpponentService interface {
	CreateOpponent(ctx context.Context, input CreateOpponentInput) (*models.OpponentTeam, error)
	ListOpponents(ctx context.Context) ([]models.OpponentTeam, error)
}

type CreateOpponentInput struct {
	Name         string
	Rank         *int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

type opponentService struct {
	opponentRepo repositories.OpponentRepository
}

func NewOpponentService(opponentRepo repositories.OpponentRepository) OpponentService {
	return &opponentService{opponentRepo: opponentRepo}
}

func (s *opponentService) CreateOpponent(ctx context.Context, input CreateOpponentInput) (*models.OpponentTeam, error) {
	verr := newValidationError()
	name := strings.TrimSpace(input.Name)
	if name == "" {
		verr.Add("name", "must be provided")
	}
	if input.Rank != nil && *input.Rank < 1 {
		verr.Add("rank", "must be at least 1")
	}
	for field, v := range map[string]int{
		"won":           input.Won,
		"drawn":         input.Drawn,
		"lost":          input.Lost,
		"goals_for":     input.GoalsFor,
		"goals_against": input.GoalsAgainst,
	} {
		if v < 0 {
			verr.Add(field, "must not be negative")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	opponent := &models.OpponentTeam{
		Name:         name,
		Rank:         input.Rank,
		Won:          input.Won,
		Drawn:        input.Drawn,
		Lost:         input.Lost,
		GoalsFor:     input.GoalsFor,
		GoalsAgainst: input.GoalsAgainst,
	}
	if err := s.opponentRepo.Create(ctx, opponent); err != nil {
		if errors.Is(err, repositories.ErrOpponentNameConflict) {
			return nil, ErrOpponentNameConflict
		}
		return nil, fmt.Errorf("failed to create opponent: %w", err)
	}
	return opponent, nil
}

func (s *opponentService) ListOpponents(ctx context.Context) ([]models.OpponentTeam, error) {
	opponents, err := s.opponentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list opponents: %w", err)
	}
	if opponents == nil {
		return []models.OpponentTeam{}, nil
	}
	return opponents, nil
}
