package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/standings"
	"github.com/Dosada05/club-system/storage"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// StandingsService recomputes tables and scorer rankings from the current
// matches and events on every call. Nothing derived is persisted except
// explicit archives.
type StandingsService interface {
	GetStandings(ctx context.Context, seasonID int) ([]models.CategoryStandings, error)
	GetTeamStanding(ctx context.Context, teamID int) (*models.TeamStanding, error)
	GetTopScorers(ctx context.Context, seasonID int, category *models.Category, limit int) ([]models.TopScorer, error)
	ArchiveSeason(ctx context.Context, seasonID int) (*SeasonArchive, error)
}

// SeasonArchive describes an uploaded snapshot.
type SeasonArchive struct {
	SeasonID    int       `json:"season_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

type seasonSnapshot struct {
	Season      *models.Season             `json:"season"`
	Standings   []models.CategoryStandings `json:"standings"`
	TopScorers  []models.TopScorer         `json:"top_scorers"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type standingsService struct {
	seasonRepo repositories.SeasonRepository
	teamRepo   repositories.TeamRepository
	matchRepo  repositories.MatchRepository
	eventRepo  repositories.EventRepository
	playerRepo repositories.PlayerRepository
	calculator *standings.Calculator
	archive    storage.ObjectStore
	clock      clockwork.Clock
	logger     *slog.Logger
}

type StandingsServiceDeps struct {
	Seasons repositories.SeasonRepository
	Teams   repositories.TeamRepository
	Matches repositories.MatchRepository
	Events  repositories.EventRepository
	Players repositories.PlayerRepository
	// Archive may be nil, in which case ArchiveSeason is unavailable.
	Archive storage.ObjectStore
	Clock   clockwork.Clock
	Logger  *slog.Logger
}

func NewStandingsService(deps StandingsServiceDeps) StandingsService {
	deps.Logger = loggerOrDefault(deps.Logger)
	return &standingsService{
		seasonRepo: deps.Seasons,
		teamRepo:   deps.Teams,
		matchRepo:  deps.Matches,
		eventRepo:  deps.Events,
		playerRepo: deps.Players,
		calculator: standings.NewCalculator(deps.Logger),
		archive:    deps.Archive,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
}

type seasonData struct {
	season  *models.Season
	teams   []models.Team
	matches []models.MatchRecord
}

// loadSeason fetches the season, its teams and its finished matches
// concurrently.
func (s *standingsService) loadSeason(ctx context.Context, seasonID int) (*seasonData, error) {
	data := &seasonData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		season, err := s.seasonRepo.GetByID(gctx, seasonID)
		if err != nil {
			if errors.Is(err, repositories.ErrSeasonNotFound) {
				return notFound("season", seasonID)
			}
			return fmt.Errorf("failed to load season %d: %w", seasonID, err)
		}
		data.season = season
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListBySeason(gctx, seasonID)
		if err != nil {
			return fmt.Errorf("failed to list teams of season %d: %w", seasonID, err)
		}
		data.teams = teams
		return nil
	})

	g.Go(func() error {
		finished := models.MatchStatusFinished
		matches, err := s.matchRepo.ListBySeason(gctx, seasonID, repositories.MatchFilter{Status: &finished})
		if err != nil {
			return fmt.Errorf("failed to list matches of season %d: %w", seasonID, err)
		}
		data.matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *standingsService) GetStandings(ctx context.Context, seasonID int) ([]models.CategoryStandings, error) {
	data, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return s.calculator.Compute(ctx, data.teams, data.matches), nil
}

func (s *standingsService) GetTeamStanding(ctx context.Context, teamID int) (*models.TeamStanding, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, notFound("team", teamID)
		}
		return nil, fmt.Errorf("failed to get team by id %d: %w", teamID, err)
	}

	// The rank only means something against the rest of the category.
	data, err := s.loadSeason(ctx, team.SeasonID)
	if err != nil {
		return nil, err
	}
	for _, group := range s.calculator.Compute(ctx, data.teams, data.matches) {
		for _, row := range group.Rows {
			if row.Team.ID == teamID {
				return &row, nil
			}
		}
	}

	// A team missing from its own season listing still gets an unranked line.
	row := s.calculator.TeamStanding(ctx, *team, data.matches)
	return &row, nil
}

func (s *standingsService) GetTopScorers(ctx context.Context, seasonID int, category *models.Category, limit int) ([]models.TopScorer, error) {
	if category != nil && !category.IsValid() && *category != models.CategoryFallback {
		verr := newValidationError()
		verr.Add("category", "unknown category")
		return nil, verr
	}

	data, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	scorers, err := s.topScorers(ctx, data, category)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(scorers) > limit {
		scorers = scorers[:limit]
	}
	return scorers, nil
}

func (s *standingsService) topScorers(ctx context.Context, data *seasonData, category *models.Category) ([]models.TopScorer, error) {
	matchIDs := make([]int, 0, len(data.matches))
	for _, m := range data.matches {
		matchIDs = append(matchIDs, m.ID)
	}

	events, err := s.eventRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load season events: %w", err)
	}

	seen := make(map[int]bool)
	playerIDs := make([]int, 0)
	for _, e := range events {
		if e.Type.CountsAsScorerGoal() && e.PlayerID != nil && !seen[*e.PlayerID] {
			seen[*e.PlayerID] = true
			playerIDs = append(playerIDs, *e.PlayerID)
		}
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load scorers: %w", err)
	}

	return standings.TopScorers(standings.ScorerInput{
		Teams:   data.teams,
		Matches: data.matches,
		Events:  events,
		Players: players,
	}, category), nil
}

func (s *standingsService) ArchiveSeason(ctx context.Context, seasonID int) (*SeasonArchive, error) {
	if s.archive == nil {
		return nil, ErrArchiveUnavailable
	}

	data, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	scorers, err := s.topScorers(ctx, data, nil)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	snapshot := seasonSnapshot{
		Season:      data.season,
		Standings:   s.calculator.Compute(ctx, data.teams, data.matches),
		TopScorers:  scorers,
		GeneratedAt: now,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode season snapshot: %w", err)
	}

	key := storage.SeasonArchiveKey(seasonID, now, uuid.NewString())
	result, err := s.archive.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to upload season snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "season archived",
		slog.Int("season_id", seasonID),
		slog.String("key", result.Key),
		slog.Int("bytes", len(body)))

	return &SeasonArchive{
		SeasonID:    seasonID,
		Key:         result.Key,
		URL:         result.Location,
		GeneratedAt: now,
	}, nil
}
