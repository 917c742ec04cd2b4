package mockrepo

import (
	"context"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/stretchr/testify/mock"
)

type SeasonRepository struct {
	mock.Mock
}

var _ repositories.SeasonRepository = (*SeasonRepository)(nil)

func (r *SeasonRepository) Create(ctx context.Context, season *models.Season) error {
	args := r.Called(ctx, season)
	return args.Error(0)
}

func (r *SeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	args := r.Called(ctx, id)
	return season(args.Get(0)), args.Error(1)
}

func (r *SeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	args := r.Called(ctx)
	return season(args.Get(0)), args.Error(1)
}

func (r *SeasonRepository) List(ctx context.Context) ([]models.Season, error) {
	args := r.Called(ctx)

	var s []models.Season
	if args.Get(0) != nil {
		s = args.Get(0).([]models.Season)
	}
	return s, args.Error(1)
}

func (r *SeasonRepository) Activate(ctx context.Context, id int, at time.Time) (*models.Season, error) {
	args := r.Called(ctx, id, at)
	return season(args.Get(0)), args.Error(1)
}

func (r *SeasonRepository) Delete(ctx context.Context, id int) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func season(v interface{}) *models.Season {
	if v == nil {
		return nil
	}
	return v.(*models.Season)
}

type TeamRepository struct {
	mock.Mock
}

var _ repositories.TeamRepository = (*TeamRepository)(nil)

func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	args := r.Called(ctx, team)
	return args.Error(0)
}

func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := r.Called(ctx, id)

	var t *models.Team
	if args.Get(0) != nil {
		t = args.Get(0).(*models.Team)
	}
	return t, args.Error(1)
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID int) ([]models.Team, error) {
	args := r.Called(ctx, seasonID)

	var t []models.Team
	if args.Get(0) != nil {
		t = args.Get(0).([]models.Team)
	}
	return t, args.Error(1)
}

type OpponentRepository struct {
	mock.Mock
}

var _ repositories.OpponentRepository = (*OpponentRepository)(nil)

func (r *OpponentRepository) Create(ctx context.Context, opponent *models.OpponentTeam) error {
	args := r.Called(ctx, opponent)
	return args.Error(0)
}

func (r *OpponentRepository) GetByID(ctx context.Context, id int) (*models.OpponentTeam, error) {
	args := r.Called(ctx, id)

	var o *models.OpponentTeam
	if args.Get(0) != nil {
		o = args.Get(0).(*models.OpponentTeam)
	}
	return o, args.Error(1)
}

func (r *OpponentRepository) List(ctx context.Context) ([]models.OpponentTeam, error) {
	args := r.Called(ctx)

	var o []models.OpponentTeam
	if args.Get(0) != nil {
		o = args.Get(0).([]models.OpponentTeam)
	}
	return o, args.Error(1)
}

type PlayerRepository struct {
	mock.Mock
}

var _ repositories.PlayerRepository = (*PlayerRepository)(nil)

func (r *PlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	args := r.Called(ctx, id)

	var p *models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*models.Player)
	}
	return p, args.Error(1)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.Player, error) {
	args := r.Called(ctx, ids)

	var p map[int]models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(map[int]models.Player)
	}
	return p, args.Error(1)
}

type MatchRepository struct {
	mock.Mock
}

var _ repositories.MatchRepository = (*MatchRepository)(nil)

func (r *MatchRepository) Create(ctx context.Context, match *models.MatchRecord) error {
	args := r.Called(ctx, match)
	return args.Error(0)
}

func (r *MatchRepository) GetByID(ctx context.Context, id int) (*models.MatchRecord, error) {
	args := r.Called(ctx, id)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID int) ([]models.MatchRecord, error) {
	args := r.Called(ctx, teamID)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID int, filter repositories.MatchFilter) ([]models.MatchRecord, error) {
	args := r.Called(ctx, seasonID, filter)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error) {
	args := r.Called(ctx, seasonID, now, limit)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) ListRecent(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error) {
	args := r.Called(ctx, seasonID, now, limit)
	return matches(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) UpdateDetails(ctx context.Context, m *models.MatchRecord, from []models.MatchStatus) (*models.MatchRecord, error) {
	args := r.Called(ctx, m, from)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, id int, to models.MatchStatus, from []models.MatchStatus) (*models.MatchRecord, error) {
	args := r.Called(ctx, id, to, from)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) UpdateScore(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error) {
	args := r.Called(ctx, id, home, away, from)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) Finish(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error) {
	args := r.Called(ctx, id, home, away, from)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) Reschedule(ctx context.Context, id int, at time.Time, from []models.MatchStatus) (*models.MatchRecord, error) {
	args := r.Called(ctx, id, at, from)
	return match(args.Get(0)), args.Error(1)
}

func (r *MatchRepository) Delete(ctx context.Context, id int) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func match(v interface{}) *models.MatchRecord {
	if v == nil {
		return nil
	}
	return v.(*models.MatchRecord)
}

func matches(v interface{}) []models.MatchRecord {
	if v == nil {
		return nil
	}
	return v.([]models.MatchRecord)
}

type LineupRepository struct {
	mock.Mock
}

var _ repositories.LineupRepository = (*LineupRepository)(nil)

func (r *LineupRepository) Replace(ctx context.Context, matchID int, entries []models.LineupEntry) error {
	args := r.Called(ctx, matchID, entries)
	return args.Error(0)
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID int) ([]models.LineupEntry, error) {
	args := r.Called(ctx, matchID)

	var e []models.LineupEntry
	if args.Get(0) != nil {
		e = args.Get(0).([]models.LineupEntry)
	}
	return e, args.Error(1)
}

type EventRepository struct {
	mock.Mock
}

var _ repositories.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(ctx context.Context, event *models.MatchEvent) error {
	args := r.Called(ctx, event)
	return args.Error(0)
}

func (r *EventRepository) Delete(ctx context.Context, matchID, eventID int) error {
	args := r.Called(ctx, matchID, eventID)
	return args.Error(0)
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int) ([]models.MatchEvent, error) {
	args := r.Called(ctx, matchID)
	return events(args.Get(0)), args.Error(1)
}

func (r *EventRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchEvent, error) {
	args := r.Called(ctx, matchIDs)
	return events(args.Get(0)), args.Error(1)
}

func events(v interface{}) []models.MatchEvent {
	if v == nil {
		return nil
	}
	return v.([]models.MatchEvent)
}
