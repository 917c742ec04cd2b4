package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 5
	maxListLimit     = 50
)

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchRecord, error)
	GetMatch(ctx context.Context, id int) (*models.MatchRecord, error)
	UpdateMatchDetails(ctx context.Context, id int, input UpdateMatchInput) (*models.MatchRecord, error)
	DeleteMatch(ctx context.Context, id int) error

	StartMatch(ctx context.Context, id int) (*models.MatchRecord, error)
	PostponeMatch(ctx context.Context, id int) (*models.MatchRecord, error)
	CancelMatch(ctx context.Context, id int) (*models.MatchRecord, error)
	// RescheduleMatch moves the kick-off of a scheduled match. A postponed
	// match is brought back to scheduled only with override.
	RescheduleMatch(ctx context.Context, id int, input RescheduleInput) (*models.MatchRecord, error)

	// SetScore writes both score slots. Matches that are not live or finished
	// need override.
	SetScore(ctx context.Context, id int, input ScoreInput) (*models.MatchRecord, error)
	// FinishMatch writes the final score and the finished status together.
	FinishMatch(ctx context.Context, id int, input ScoreInput) (*models.MatchRecord, error)
	// CorrectStatus follows the lifecycle edges unless override is set, in
	// which case the status is overwritten.
	CorrectStatus(ctx context.Context, id int, status models.MatchStatus, override bool) (*models.MatchRecord, error)

	ListTeamMatches(ctx context.Context, teamID int) ([]models.MatchRecord, error)
	ListSeasonMatches(ctx context.Context, seasonID int, filter repositories.MatchFilter) ([]models.MatchRecord, error)
	ListUpcoming(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error)
	ListRecentResults(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error)
}

type CreateMatchInput struct {
	TeamID       int
	Category     *models.Category
	OpponentName *string
	OpponentID   *int
	ScheduledAt  time.Time
	Venue        string
	Orientation  models.Orientation
}

// UpdateMatchInput changes only the non-nil fields. ClearCategory removes an
// explicit category so the team's applies again.
type UpdateMatchInput struct {
	Category      *models.Category
	ClearCategory bool
	OpponentName  *string
	OpponentID    *int
	ScheduledAt   *time.Time
	Venue         *string
	Orientation   *models.Orientation
}

type RescheduleInput struct {
	ScheduledAt time.Time
	Override    bool
}

type ScoreInput struct {
	HomeScore *int
	AwayScore *int
	Override  bool
}

type matchService struct {
	matchRepo    repositories.MatchRepository
	teamRepo     repositories.TeamRepository
	seasonRepo   repositories.SeasonRepository
	opponentRepo repositories.OpponentRepository
	eventRepo    repositories.EventRepository
	lineupRepo   repositories.LineupRepository
	playerRepo   repositories.PlayerRepository
	clock        clockwork.Clock
	notifier     matchNotifier
	logger       *slog.Logger
}

type MatchServiceDeps struct {
	Matches   repositories.MatchRepository
	Teams     repositories.TeamRepository
	Seasons   repositories.SeasonRepository
	Opponents repositories.OpponentRepository
	Events    repositories.EventRepository
	Lineups   repositories.LineupRepository
	Players   repositories.PlayerRepository
	Clock     clockwork.Clock
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

func NewMatchService(deps MatchServiceDeps) MatchService {
	deps.Logger = loggerOrDefault(deps.Logger)
	return &matchService{
		matchRepo:    deps.Matches,
		teamRepo:     deps.Teams,
		seasonRepo:   deps.Seasons,
		opponentRepo: deps.Opponents,
		eventRepo:    deps.Events,
		lineupRepo:   deps.Lineups,
		playerRepo:   deps.Players,
		clock:        deps.Clock,
		notifier:     newMatchNotifier(deps.Notifier, deps.Clock, deps.Logger),
		logger:       deps.Logger,
	}
}

func validateOpponent(verr *ValidationError, name *string, id *int) {
	switch {
	case name == nil && id == nil:
		verr.Add("opponent", "either opponent_name or opponent_id must be provided")
	case name != nil && id != nil:
		verr.Add("opponent", "opponent_name and opponent_id are mutually exclusive")
	case id != nil && *id <= 0:
		verr.Add("opponent_id", "must be a positive id")
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchRecord, error) {
	input.OpponentName = trimmedOrNil(input.OpponentName)

	verr := newValidationError()
	if input.TeamID <= 0 {
		verr.Add("team_id", "must be a positive id")
	}
	if input.Category != nil && !input.Category.IsValid() {
		verr.Add("category", unknownCategoryMessage())
	}
	validateOpponent(verr, input.OpponentName, input.OpponentID)
	if input.ScheduledAt.IsZero() {
		verr.Add("scheduled_at", "must be provided")
	}
	if !input.Orientation.IsValid() {
		verr.Add("orientation", "must be home or away")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	team, err := s.loadTeam(ctx, input.TeamID)
	if err != nil {
		return nil, err
	}
	var opponent *models.OpponentTeam
	if input.OpponentID != nil {
		if opponent, err = s.loadOpponent(ctx, *input.OpponentID); err != nil {
			return nil, err
		}
	}

	match := &models.MatchRecord{
		TeamID:       input.TeamID,
		Category:     input.Category,
		OpponentName: input.OpponentName,
		OpponentID:   input.OpponentID,
		ScheduledAt:  input.ScheduledAt,
		Venue:        strings.TrimSpace(input.Venue),
		Orientation:  input.Orientation,
		Status:       models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, notFound("team", input.TeamID)
		case errors.Is(err, repositories.ErrMatchOpponentInvalid):
			return nil, notFound("opponent", *input.OpponentID)
		default:
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
	}

	attachTeam(match, team)
	match.Opponent = opponent
	s.notifier.match(ctx, notify.KindMatchCreated, match)
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	var team *models.Team
	g.Go(func() error {
		t, err := s.teamRepo.GetByID(gctx, match.TeamID)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return fmt.Errorf("failed to load team %d: %w", match.TeamID, err)
		}
		team = t
		return nil
	})

	if match.OpponentID != nil {
		g.Go(func() error {
			o, err := s.opponentRepo.GetByID(gctx, *match.OpponentID)
			if err != nil && !errors.Is(err, repositories.ErrOpponentNotFound) {
				return fmt.Errorf("failed to load opponent %d: %w", *match.OpponentID, err)
			}
			match.Opponent = o
			return nil
		})
	}

	var events []models.MatchEvent
	g.Go(func() error {
		e, err := s.eventRepo.ListByMatch(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to load events of match %d: %w", id, err)
		}
		events = e
		return nil
	})

	var lineup *models.Lineup
	g.Go(func() error {
		l, err := loadLineup(gctx, s.lineupRepo, s.playerRepo, id)
		if err != nil {
			return err
		}
		lineup = l
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	attachTeam(match, team)
	if events == nil {
		events = []models.MatchEvent{}
	}
	match.Events = events
	match.Lineup = lineup
	return match, nil
}

func (s *matchService) UpdateMatchDetails(ctx context.Context, id int, input UpdateMatchInput) (*models.MatchRecord, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	editable := []models.MatchStatus{models.MatchStatusScheduled, models.MatchStatusPostponed}
	if !containsStatus(editable, match.Status) {
		return nil, stateConflict(match, "update")
	}

	verr := newValidationError()
	if input.Category != nil {
		if !input.Category.IsValid() {
			verr.Add("category", unknownCategoryMessage())
		}
		match.Category = input.Category
	} else if input.ClearCategory {
		match.Category = nil
	}
	if input.OpponentName != nil || input.OpponentID != nil {
		name := trimmedOrNil(input.OpponentName)
		validateOpponent(verr, name, input.OpponentID)
		match.OpponentName, match.OpponentID = name, input.OpponentID
	}
	if input.ScheduledAt != nil {
		if input.ScheduledAt.IsZero() {
			verr.Add("scheduled_at", "must not be empty")
		}
		match.ScheduledAt = *input.ScheduledAt
	}
	if input.Venue != nil {
		match.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.Orientation != nil {
		if !input.Orientation.IsValid() {
			verr.Add("orientation", "must be home or away")
		}
		match.Orientation = *input.Orientation
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if input.OpponentID != nil {
		if _, err := s.loadOpponent(ctx, *input.OpponentID); err != nil {
			return nil, err
		}
	}

	updated, err := s.matchRepo.UpdateDetails(ctx, match, editable)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchOpponentInvalid) && input.OpponentID != nil {
			return nil, notFound("opponent", *input.OpponentID)
		}
		return nil, s.writeError(ctx, id, "update", err)
	}
	s.notifier.match(ctx, notify.KindMatchUpdated, updated)
	return updated, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return notFound("match", id)
		}
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	s.notifier.match(ctx, notify.KindMatchDeleted, match)
	return nil
}

func (s *matchService) StartMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return s.transition(ctx, id, models.MatchStatusLive, "start")
}

func (s *matchService) PostponeMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return s.transition(ctx, id, models.MatchStatusPostponed, "postpone")
}

func (s *matchService) CancelMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return s.transition(ctx, id, models.MatchStatusCancelled, "cancel")
}

func (s *matchService) transition(ctx context.Context, id int, to models.MatchStatus, operation string) (*models.MatchRecord, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidStatusTransition(match.Status, to) {
		return nil, stateConflict(match, operation)
	}

	updated, err := s.matchRepo.UpdateStatus(ctx, id, to, []models.MatchStatus{match.Status})
	if err != nil {
		return nil, s.writeError(ctx, id, operation, err)
	}
	s.logger.InfoContext(ctx, "match status changed",
		slog.Int("match_id", id),
		slog.String("from", string(match.Status)),
		slog.String("to", string(to)))
	s.notifier.match(ctx, notify.KindStatusChanged, updated)
	return updated, nil
}

func (s *matchService) RescheduleMatch(ctx context.Context, id int, input RescheduleInput) (*models.MatchRecord, error) {
	if input.ScheduledAt.IsZero() {
		verr := newValidationError()
		verr.Add("scheduled_at", "must be provided")
		return nil, verr
	}

	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	var from []models.MatchStatus
	switch {
	case match.Status == models.MatchStatusScheduled:
		from = []models.MatchStatus{models.MatchStatusScheduled}
	case match.Status == models.MatchStatusPostponed && input.Override:
		from = []models.MatchStatus{models.MatchStatusPostponed}
	default:
		return nil, stateConflict(match, "reschedule")
	}

	updated, err := s.matchRepo.Reschedule(ctx, id, input.ScheduledAt, from)
	if err != nil {
		return nil, s.writeError(ctx, id, "reschedule", err)
	}
	if match.Status == models.MatchStatusPostponed {
		s.logger.WarnContext(ctx, "postponed match rescheduled",
			slog.Int("match_id", id),
			slog.Time("scheduled_at", input.ScheduledAt))
	}
	s.notifier.match(ctx, notify.KindStatusChanged, updated)
	return updated, nil
}

func validateScore(input ScoreInput) (home, away int, err error) {
	verr := newValidationError()
	if input.HomeScore == nil {
		verr.Add("home_score", "must be provided")
	} else if *input.HomeScore < 0 {
		verr.Add("home_score", "must not be negative")
	}
	if input.AwayScore == nil {
		verr.Add("away_score", "must be provided")
	} else if *input.AwayScore < 0 {
		verr.Add("away_score", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return 0, 0, err
	}
	return *input.HomeScore, *input.AwayScore, nil
}

func (s *matchService) SetScore(ctx context.Context, id int, input ScoreInput) (*models.MatchRecord, error) {
	home, away, err := validateScore(input)
	if err != nil {
		return nil, err
	}

	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	from := []models.MatchStatus{models.MatchStatusLive, models.MatchStatusFinished}
	if !containsStatus(from, match.Status) {
		if !input.Override {
			return nil, stateConflict(match, "set the score of")
		}
		from = []models.MatchStatus{match.Status}
	}

	updated, err := s.matchRepo.UpdateScore(ctx, id, home, away, from)
	if err != nil {
		return nil, s.writeError(ctx, id, "set the score of", err)
	}
	if input.Override {
		s.logger.WarnContext(ctx, "match score overwritten",
			slog.Int("match_id", id),
			slog.String("status", string(updated.Status)),
			slog.Int("home_score", home),
			slog.Int("away_score", away))
	}
	s.notifier.match(ctx, notify.KindScoreUpdated, updated)
	return updated, nil
}

func (s *matchService) FinishMatch(ctx context.Context, id int, input ScoreInput) (*models.MatchRecord, error) {
	home, away, err := validateScore(input)
	if err != nil {
		return nil, err
	}

	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	from := []models.MatchStatus{models.MatchStatusLive}
	if match.Status != models.MatchStatusLive {
		if !input.Override {
			return nil, stateConflict(match, "finish")
		}
		from = []models.MatchStatus{match.Status}
	}

	updated, err := s.matchRepo.Finish(ctx, id, home, away, from)
	if err != nil {
		return nil, s.writeError(ctx, id, "finish", err)
	}
	s.logger.InfoContext(ctx, "match finished",
		slog.Int("match_id", id),
		slog.Int("home_score", home),
		slog.Int("away_score", away),
		slog.Bool("override", input.Override))
	s.notifier.match(ctx, notify.KindMatchFinished, updated)
	return updated, nil
}

func (s *matchService) CorrectStatus(ctx context.Context, id int, status models.MatchStatus, override bool) (*models.MatchRecord, error) {
	if !status.IsValid() {
		verr := newValidationError()
		verr.Add("status", "must be one of scheduled, live, finished, postponed, cancelled")
		return nil, verr
	}

	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Status == status {
		return match, nil
	}
	if !override && !isValidStatusTransition(match.Status, status) {
		return nil, stateConflict(match, "move to "+string(status))
	}
	if status == models.MatchStatusFinished && !match.HasScore() {
		verr := newValidationError()
		verr.Add("status", "a match can only be marked finished once it has a score")
		return nil, verr
	}

	updated, err := s.matchRepo.UpdateStatus(ctx, id, status, []models.MatchStatus{match.Status})
	if err != nil {
		return nil, s.writeError(ctx, id, "move to "+string(status), err)
	}
	if override {
		s.logger.WarnContext(ctx, "match status overwritten",
			slog.Int("match_id", id),
			slog.String("from", string(match.Status)),
			slog.String("to", string(status)))
	}
	s.notifier.match(ctx, notify.KindStatusChanged, updated)
	return updated, nil
}

func (s *matchService) ListTeamMatches(ctx context.Context, teamID int) ([]models.MatchRecord, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of team %d: %w", teamID, err)
	}
	return withTeams(matches, map[int]*models.Team{team.ID: team}), nil
}

func (s *matchService) ListSeasonMatches(ctx context.Context, seasonID int, filter repositories.MatchFilter) ([]models.MatchRecord, error) {
	verr := newValidationError()
	if filter.Status != nil && !filter.Status.IsValid() {
		verr.Add("status", "unknown match status")
	}
	if filter.Category != nil && !filter.Category.IsValid() && *filter.Category != models.CategoryFallback {
		verr.Add("category", "unknown category")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// The fallback bucket has no stored value to filter on, so it is
	// resolved in memory.
	fallback := filter.Category != nil && *filter.Category == models.CategoryFallback
	repoFilter := filter
	if fallback {
		repoFilter.Category = nil
	}

	return s.seasonList(ctx, seasonID, func(ctx context.Context) ([]models.MatchRecord, error) {
		return s.matchRepo.ListBySeason(ctx, seasonID, repoFilter)
	}, func(m models.MatchRecord) bool {
		return !fallback || m.ResolvedCategory == models.CategoryFallback
	})
}

func (s *matchService) ListUpcoming(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error) {
	now := s.clock.Now()
	limit = clampLimit(limit, defaultListLimit, maxListLimit)
	return s.seasonList(ctx, seasonID, func(ctx context.Context) ([]models.MatchRecord, error) {
		return s.matchRepo.ListUpcoming(ctx, seasonID, now, limit)
	}, nil)
}

func (s *matchService) ListRecentResults(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error) {
	now := s.clock.Now()
	limit = clampLimit(limit, defaultListLimit, maxListLimit)
	return s.seasonList(ctx, seasonID, func(ctx context.Context) ([]models.MatchRecord, error) {
		return s.matchRepo.ListRecent(ctx, seasonID, now, limit)
	}, nil)
}

// seasonList loads matches and the season's teams side by side, then
// attaches each team and resolves categories.
func (s *matchService) seasonList(
	ctx context.Context,
	seasonID int,
	load func(context.Context) ([]models.MatchRecord, error),
	keep func(models.MatchRecord) bool,
) ([]models.MatchRecord, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, notFound("season", seasonID)
		}
		return nil, fmt.Errorf("failed to load season %d: %w", seasonID, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var matches []models.MatchRecord
	g.Go(func() error {
		m, err := load(gctx)
		if err != nil {
			return fmt.Errorf("failed to list matches of season %d: %w", seasonID, err)
		}
		matches = m
		return nil
	})

	var teams []models.Team
	g.Go(func() error {
		t, err := s.teamRepo.ListBySeason(gctx, seasonID)
		if err != nil {
			return fmt.Errorf("failed to list teams of season %d: %w", seasonID, err)
		}
		teams = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	out := withTeams(matches, byID)
	if keep == nil {
		return out, nil
	}
	filtered := make([]models.MatchRecord, 0, len(out))
	for _, m := range out {
		if keep(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func withTeams(matches []models.MatchRecord, teams map[int]*models.Team) []models.MatchRecord {
	out := make([]models.MatchRecord, len(matches))
	for i := range matches {
		out[i] = matches[i]
		attachTeam(&out[i], teams[matches[i].TeamID])
	}
	return out
}

func attachTeam(m *models.MatchRecord, team *models.Team) {
	m.Team = team
	m.ResolvedCategory = models.MatchCategory(m, team)
}

func (s *matchService) loadMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, notFound("match", id)
		}
		return nil, fmt.Errorf("failed to get match by id %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) loadTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, notFound("team", id)
		}
		return nil, fmt.Errorf("failed to get team by id %d: %w", id, err)
	}
	return team, nil
}

func (s *matchService) loadOpponent(ctx context.Context, id int) (*models.OpponentTeam, error) {
	opponent, err := s.opponentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrOpponentNotFound) {
			return nil, notFound("opponent", id)
		}
		return nil, fmt.Errorf("failed to get opponent by id %d: %w", id, err)
	}
	return opponent, nil
}

// writeError maps the outcome of a conditional write. A status that moved
// under our feet is reported with the status the match has now.
func (s *matchService) writeError(ctx context.Context, id int, operation string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return notFound("match", id)
	case errors.Is(err, repositories.ErrMatchStatusChanged):
		current, loadErr := s.loadMatch(ctx, id)
		if loadErr != nil {
			return loadErr
		}
		return stateConflict(current, operation)
	default:
		return fmt.Errorf("failed to %s match %d: %w", operation, id, err)
	}
}
