package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	"github.com/jonboulle/clockwork"
)

type LineupService interface {
	// SetLineup replaces the whole lineup of a match. Nothing is written
	// when any entry is invalid.
	SetLineup(ctx context.Context, matchID int, entries []LineupEntryInput) (*models.Lineup, error)
	GetLineup(ctx context.Context, matchID int) (*models.Lineup, error)
}

type LineupEntryInput struct {
	PlayerID         int
	Role             models.LineupRole
	StartingPosition *int
}

type lineupService struct {
	lineupRepo repositories.LineupRepository
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	notifier   matchNotifier
	logger     *slog.Logger
}

func NewLineupService(
	lineupRepo repositories.LineupRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier notify.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) LineupService {
	logger = loggerOrDefault(logger)
	return &lineupService{
		lineupRepo: lineupRepo,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		notifier:   newMatchNotifier(notifier, clock, logger),
		logger:     logger,
	}
}

func validateLineup(entries []LineupEntryInput) error {
	verr := newValidationError()
	seenPlayers := make(map[int]int, len(entries))
	seenPositions := make(map[int]int, len(entries))

	for i, e := range entries {
		field := func(name string) string { return fmt.Sprintf("entries[%d].%s", i, name) }

		if e.PlayerID <= 0 {
			verr.Add(field("player_id"), "must be a positive id")
		} else if first, dup := seenPlayers[e.PlayerID]; dup {
			verr.Add(field("player_id"), fmt.Sprintf("player %d already listed at entries[%d]", e.PlayerID, first))
		} else {
			seenPlayers[e.PlayerID] = i
		}

		switch e.Role {
		case models.LineupRoleStarter:
			switch {
			case e.StartingPosition == nil:
				verr.Add(field("starting_position"), "required for a starter")
			case *e.StartingPosition < models.MinStartingPosition || *e.StartingPosition > models.MaxStartingPosition:
				verr.Add(field("starting_position"), fmt.Sprintf("must be between %d and %d", models.MinStartingPosition, models.MaxStartingPosition))
			default:
				if first, dup := seenPositions[*e.StartingPosition]; dup {
					verr.Add(field("starting_position"), fmt.Sprintf("position %d already taken at entries[%d]", *e.StartingPosition, first))
				} else {
					seenPositions[*e.StartingPosition] = i
				}
			}
		case models.LineupRoleSubstitute:
			if e.StartingPosition != nil {
				verr.Add(field("starting_position"), "must be empty for a substitute")
			}
		default:
			verr.Add(field("role"), "must be starter or substitute")
		}
	}
	return verr.OrNil()
}

func (s *lineupService) SetLineup(ctx context.Context, matchID int, entries []LineupEntryInput) (*models.Lineup, error) {
	if err := validateLineup(entries); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, notFound("match", matchID)
		}
		return nil, fmt.Errorf("failed to get match by id %d: %w", matchID, err)
	}
	if match.Status == models.MatchStatusCancelled {
		return nil, stateConflict(match, "set the lineup of")
	}

	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}
	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineup players: %w", err)
	}

	rows := make([]models.LineupEntry, len(entries))
	for i, e := range entries {
		player, ok := players[e.PlayerID]
		if !ok {
			return nil, notFound("player", e.PlayerID)
		}
		rows[i] = models.LineupEntry{
			MatchID:          matchID,
			PlayerID:         e.PlayerID,
			Role:             e.Role,
			StartingPosition: e.StartingPosition,
			JerseyNumber:     player.JerseyNumber,
		}
	}

	if err := s.lineupRepo.Replace(ctx, matchID, rows); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLineupMatchInvalid):
			return nil, notFound("match", matchID)
		case errors.Is(err, repositories.ErrLineupPlayerInvalid):
			return nil, fmt.Errorf("%w: a lineup player was removed concurrently", ErrNotFound)
		case errors.Is(err, repositories.ErrLineupDuplicatePlayer), errors.Is(err, repositories.ErrLineupPositionConflict):
			verr := newValidationError()
			verr.Add("entries", err.Error())
			return nil, verr
		default:
			return nil, fmt.Errorf("failed to replace lineup of match %d: %w", matchID, err)
		}
	}

	for i := range rows {
		p := players[rows[i].PlayerID]
		rows[i].Player = &p
	}
	lineup := splitLineup(matchID, rows)

	s.logger.InfoContext(ctx, "lineup replaced",
		slog.Int("match_id", matchID),
		slog.Int("starters", len(lineup.Starters)),
		slog.Int("substitutes", len(lineup.Substitutes)))
	s.notifier.match(ctx, notify.KindLineupReplaced, match)
	return lineup, nil
}

func (s *lineupService) GetLineup(ctx context.Context, matchID int) (*models.Lineup, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, notFound("match", matchID)
		}
		return nil, fmt.Errorf("failed to get match by id %d: %w", matchID, err)
	}
	return loadLineup(ctx, s.lineupRepo, s.playerRepo, matchID)
}

func loadLineup(ctx context.Context, lineupRepo repositories.LineupRepository, playerRepo repositories.PlayerRepository, matchID int) (*models.Lineup, error) {
	entries, err := lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineup of match %d: %w", matchID, err)
	}

	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}
	players, err := playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineup players: %w", err)
	}
	for i := range entries {
		if p, ok := players[entries[i].PlayerID]; ok {
			entries[i].Player = &p
		}
	}
	return splitLineup(matchID, entries), nil
}

// splitLineup orders starters by position and substitutes by submission
// order.
func splitLineup(matchID int, entries []models.LineupEntry) *models.Lineup {
	lineup := &models.Lineup{
		MatchID:     matchID,
		Starters:    make([]models.LineupEntry, 0, models.MaxStartingPosition),
		Substitutes: make([]models.LineupEntry, 0),
	}
	for _, e := range entries {
		if e.Role == models.LineupRoleStarter {
			lineup.Starters = append(lineup.Starters, e)
		} else {
			lineup.Substitutes = append(lineup.Substitutes, e)
		}
	}

	sort.SliceStable(lineup.Starters, func(i, j int) bool {
		return startingPosition(lineup.Starters[i]) < startingPosition(lineup.Starters[j])
	})
	sort.SliceStable(lineup.Substitutes, func(i, j int) bool {
		return lineup.Substitutes[i].SortOrder < lineup.Substitutes[j].SortOrder
	})
	return lineup
}

func startingPosition(e models.LineupEntry) int {
	if e.StartingPosition == nil {
		return models.MaxStartingPosition + 1
	}
	return *e.StartingPosition
}
