package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/repositories/mockrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	matches   *mockrepo.MatchRepository
	teams     *mockrepo.TeamRepository
	seasons   *mockrepo.SeasonRepository
	opponents *mockrepo.OpponentRepository
	events    *mockrepo.EventRepository
	lineups   *mockrepo.LineupRepository
	players   *mockrepo.PlayerRepository
	notifier  *recordingNotifier
	service   MatchService
}

func newMatchFixture() *matchFixture {
	f := &matchFixture{
		matches:   &mockrepo.MatchRepository{},
		teams:     &mockrepo.TeamRepository{},
		seasons:   &mockrepo.SeasonRepository{},
		opponents: &mockrepo.OpponentRepository{},
		events:    &mockrepo.EventRepository{},
		lineups:   &mockrepo.LineupRepository{},
		players:   &mockrepo.PlayerRepository{},
		notifier:  &recordingNotifier{},
	}
	f.service = NewMatchService(MatchServiceDeps{
		Matches:   f.matches,
		Teams:     f.teams,
		Seasons:   f.seasons,
		Opponents: f.opponents,
		Events:    f.events,
		Lineups:   f.lineups,
		Players:   f.players,
		Clock:     fakeClock(),
		Notifier:  f.notifier,
		Logger:    discardLogger(),
	})
	return f
}

func TestCreateMatch_validation(t *testing.T) {
	tests := map[string]struct {
		input     CreateMatchInput
		wantField string
	}{
		"missing team":        {input: CreateMatchInput{OpponentName: strPtr("A"), ScheduledAt: kickoff, Orientation: models.OrientationHome}, wantField: "team_id"},
		"missing opponent":    {input: CreateMatchInput{TeamID: 1, ScheduledAt: kickoff, Orientation: models.OrientationHome}, wantField: "opponent"},
		"blank opponent name": {input: CreateMatchInput{TeamID: 1, OpponentName: strPtr("  "), ScheduledAt: kickoff, Orientation: models.OrientationHome}, wantField: "opponent"},
		"both opponents":      {input: CreateMatchInput{TeamID: 1, OpponentName: strPtr("A"), OpponentID: intPtr(2), ScheduledAt: kickoff, Orientation: models.OrientationHome}, wantField: "opponent"},
		"missing kickoff":     {input: CreateMatchInput{TeamID: 1, OpponentName: strPtr("A"), Orientation: models.OrientationHome}, wantField: "scheduled_at"},
		"bad orientation":     {input: CreateMatchInput{TeamID: 1, OpponentName: strPtr("A"), ScheduledAt: kickoff, Orientation: "neutral"}, wantField: "orientation"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newMatchFixture()

			_, err := f.service.CreateMatch(context.Background(), tc.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Contains(t, verr.Fields, tc.wantField)
			f.matches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateMatch_unknownTeam(t *testing.T) {
	f := newMatchFixture()
	f.teams.On("GetByID", mock.Anything, 42).Return(nil, repositories.ErrTeamNotFound)

	_, err := f.service.CreateMatch(context.Background(), CreateMatchInput{
		TeamID: 42, OpponentName: strPtr("A"), ScheduledAt: kickoff, Orientation: models.OrientationAway,
	})

	var rerr *ReferentialError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "team", rerr.Entity)
	assert.Equal(t, 42, rerr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMatch_startsScheduledWithoutScore(t *testing.T) {
	f := newMatchFixture()
	team := &models.Team{ID: 1, SeasonID: 1, Category: models.CategoryU13, Name: "U13 A"}
	f.teams.On("GetByID", mock.Anything, 1).Return(team, nil)
	f.matches.On("Create", mock.Anything, mock.AnythingOfType("*models.MatchRecord")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.MatchRecord).ID = 10 }).
		Return(nil)

	m, err := f.service.CreateMatch(context.Background(), CreateMatchInput{
		TeamID: 1, OpponentName: strPtr(" FC Voisins "), ScheduledAt: kickoff, Orientation: models.OrientationHome,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusScheduled, m.Status)
	assert.False(t, m.HasScore())
	assert.Equal(t, "FC Voisins", *m.OpponentName)
	assert.Equal(t, models.CategoryU13, m.ResolvedCategory)
	assert.Equal(t, []notify.Kind{notify.KindMatchCreated}, f.notifier.kinds())
}

func TestTransitions(t *testing.T) {
	tests := map[string]struct {
		from     models.MatchStatus
		call     func(MatchService, context.Context, int) (*models.MatchRecord, error)
		to       models.MatchStatus
		conflict bool
	}{
		"start scheduled":     {from: models.MatchStatusScheduled, call: MatchService.StartMatch, to: models.MatchStatusLive},
		"postpone scheduled":  {from: models.MatchStatusScheduled, call: MatchService.PostponeMatch, to: models.MatchStatusPostponed},
		"cancel scheduled":    {from: models.MatchStatusScheduled, call: MatchService.CancelMatch, to: models.MatchStatusCancelled},
		"start live":          {from: models.MatchStatusLive, call: MatchService.StartMatch, conflict: true},
		"cancel live":         {from: models.MatchStatusLive, call: MatchService.CancelMatch, conflict: true},
		"postpone finished":   {from: models.MatchStatusFinished, call: MatchService.PostponeMatch, conflict: true},
		"start cancelled":     {from: models.MatchStatusCancelled, call: MatchService.StartMatch, conflict: true},
		"start postponed":     {from: models.MatchStatusPostponed, call: MatchService.StartMatch, conflict: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newMatchFixture()
			f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, tc.from), nil)
			if !tc.conflict {
				f.matches.On("UpdateStatus", mock.Anything, 5, tc.to, []models.MatchStatus{tc.from}).
					Return(matchWithStatus(5, tc.to), nil)
			}

			m, err := tc.call(f.service, context.Background(), 5)

			if tc.conflict {
				var serr *StateConflictError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, tc.from, serr.Status)
				assert.ErrorIs(t, err, ErrStateConflict)
				f.matches.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, m.Status)
			assert.Equal(t, []notify.Kind{notify.KindStatusChanged}, f.notifier.kinds())
		})
	}
}

func TestTransition_lostRaceReportsCurrentStatus(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusScheduled), nil).Once()
	f.matches.On("UpdateStatus", mock.Anything, 5, models.MatchStatusLive, []models.MatchStatus{models.MatchStatusScheduled}).
		Return(nil, repositories.ErrMatchStatusChanged)
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil).Once()

	_, err := f.service.StartMatch(context.Background(), 5)

	var serr *StateConflictError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, models.MatchStatusCancelled, serr.Status)
	assert.Empty(t, f.notifier.kinds())
}

func TestFinishMatch(t *testing.T) {
	live := []models.MatchStatus{models.MatchStatusLive}

	t.Run("rejects a negative score", func(t *testing.T) {
		f := newMatchFixture()

		_, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(-1), AwayScore: intPtr(0)})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "home_score")
		f.matches.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("requires both scores", func(t *testing.T) {
		f := newMatchFixture()

		_, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(1)})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "away_score")
	})

	t.Run("accepts a goalless draw", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
		f.matches.On("Finish", mock.Anything, 5, 0, 0, live).
			Return(scored(matchWithStatus(5, models.MatchStatusFinished), 0, 0), nil)

		m, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(0), AwayScore: intPtr(0)})
		require.NoError(t, err)

		assert.Equal(t, models.MatchStatusFinished, m.Status)
		assert.Equal(t, 0, *m.HomeScore)
		assert.Equal(t, []notify.Kind{notify.KindMatchFinished}, f.notifier.kinds())
	})

	t.Run("finished again needs override", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(scored(matchWithStatus(5, models.MatchStatusFinished), 1, 0), nil)

		_, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(2), AwayScore: intPtr(0)})
		assert.ErrorIs(t, err, ErrStateConflict)

		f.matches.On("Finish", mock.Anything, 5, 2, 0, []models.MatchStatus{models.MatchStatusFinished}).
			Return(scored(matchWithStatus(5, models.MatchStatusFinished), 2, 0), nil)
		m, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(2), AwayScore: intPtr(0), Override: true})
		require.NoError(t, err)
		assert.Equal(t, 2, *m.HomeScore)
	})

	t.Run("scheduled match conflicts without override", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusScheduled), nil)

		_, err := f.service.FinishMatch(context.Background(), 5, ScoreInput{HomeScore: intPtr(2), AwayScore: intPtr(1)})
		assert.ErrorIs(t, err, ErrStateConflict)
		f.matches.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSetScore(t *testing.T) {
	t.Run("live match", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
		f.matches.On("UpdateScore", mock.Anything, 5, 1, 0, []models.MatchStatus{models.MatchStatusLive, models.MatchStatusFinished}).
			Return(scored(matchWithStatus(5, models.MatchStatusLive), 1, 0), nil)

		m, err := f.service.SetScore(context.Background(), 5, ScoreInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusLive, m.Status)
		assert.Equal(t, []notify.Kind{notify.KindScoreUpdated}, f.notifier.kinds())
	})

	t.Run("cancelled match conflicts", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil)

		_, err := f.service.SetScore(context.Background(), 5, ScoreInput{HomeScore: intPtr(1), AwayScore: intPtr(0)})

		var serr *StateConflictError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 5, serr.MatchID)
		assert.Equal(t, models.MatchStatusCancelled, serr.Status)
	})

	t.Run("cancelled match with override", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil)
		f.matches.On("UpdateScore", mock.Anything, 5, 3, 0, []models.MatchStatus{models.MatchStatusCancelled}).
			Return(scored(matchWithStatus(5, models.MatchStatusCancelled), 3, 0), nil)

		m, err := f.service.SetScore(context.Background(), 5, ScoreInput{HomeScore: intPtr(3), AwayScore: intPtr(0), Override: true})
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusCancelled, m.Status)
	})

	t.Run("notification failure does not fail the write", func(t *testing.T) {
		f := newMatchFixture()
		f.notifier.err = errors.New("bus down")
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
		f.matches.On("UpdateScore", mock.Anything, 5, 0, 1, mock.Anything).
			Return(scored(matchWithStatus(5, models.MatchStatusLive), 0, 1), nil)

		_, err := f.service.SetScore(context.Background(), 5, ScoreInput{HomeScore: intPtr(0), AwayScore: intPtr(1)})
		assert.NoError(t, err)
	})
}

func TestCorrectStatus(t *testing.T) {
	t.Run("finished needs a stored score", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil)

		_, err := f.service.CorrectStatus(context.Background(), 5, models.MatchStatusFinished, true)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("leaving a terminal state needs override", func(t *testing.T) {
		f := newMatchFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil)

		_, err := f.service.CorrectStatus(context.Background(), 5, models.MatchStatusScheduled, false)
		assert.ErrorIs(t, err, ErrStateConflict)

		f.matches.On("UpdateStatus", mock.Anything, 5, models.MatchStatusScheduled, []models.MatchStatus{models.MatchStatusCancelled}).
			Return(matchWithStatus(5, models.MatchStatusScheduled), nil)
		m, err := f.service.CorrectStatus(context.Background(), 5, models.MatchStatusScheduled, true)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newMatchFixture()
		_, err := f.service.CorrectStatus(context.Background(), 5, "abandoned", true)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestUpdateMatchDetails_onlyBeforeKickoff(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)

	venue := "Annexe"
	_, err := f.service.UpdateMatchDetails(context.Background(), 5, UpdateMatchInput{Venue: &venue})
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestRescheduleMatch_scheduledMovesFreely(t *testing.T) {
	f := newMatchFixture()
	at := kickoff.Add(2 * time.Hour)
	from := []models.MatchStatus{models.MatchStatusScheduled}
	moved := matchWithStatus(5, models.MatchStatusScheduled)
	moved.ScheduledAt = at
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusScheduled), nil)
	f.matches.On("Reschedule", mock.Anything, 5, at, from).Return(moved, nil)

	m, err := f.service.RescheduleMatch(context.Background(), 5, RescheduleInput{ScheduledAt: at})
	require.NoError(t, err)
	assert.Equal(t, at, m.ScheduledAt)
	f.matches.AssertExpectations(t)
}

func TestRescheduleMatch_postponedNeedsOverride(t *testing.T) {
	f := newMatchFixture()
	at := kickoff.Add(7 * 24 * time.Hour)
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusPostponed), nil)

	_, err := f.service.RescheduleMatch(context.Background(), 5, RescheduleInput{ScheduledAt: at})

	var conflict *StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, models.MatchStatusPostponed, conflict.Status)
	assert.Equal(t, 5, conflict.MatchID)
	f.matches.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRescheduleMatch_postponedWithOverride(t *testing.T) {
	f := newMatchFixture()
	at := kickoff.Add(7 * 24 * time.Hour)
	from := []models.MatchStatus{models.MatchStatusPostponed}
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusPostponed), nil)
	f.matches.On("Reschedule", mock.Anything, 5, at, from).Return(matchWithStatus(5, models.MatchStatusScheduled), nil)

	m, err := f.service.RescheduleMatch(context.Background(), 5, RescheduleInput{ScheduledAt: at, Override: true})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, m.Status)
	f.matches.AssertExpectations(t)
}

func TestRescheduleMatch_terminalRefusedEvenWithOverride(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusFinished), nil)

	_, err := f.service.RescheduleMatch(context.Background(), 5, RescheduleInput{ScheduledAt: kickoff, Override: true})
	assert.ErrorIs(t, err, ErrStateConflict)
	f.matches.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListUpcoming_usesInjectedClock(t *testing.T) {
	f := newMatchFixture()
	f.seasons.On("GetByID", mock.Anything, 1).Return(&models.Season{ID: 1}, nil)
	f.teams.On("ListBySeason", mock.Anything, 1).Return([]models.Team{{ID: 1, Category: models.CategoryU15}}, nil)
	f.matches.On("ListUpcoming", mock.Anything, 1, testNow, defaultListLimit).
		Return([]models.MatchRecord{*matchWithStatus(9, models.MatchStatusScheduled)}, nil)

	got, err := f.service.ListUpcoming(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CategoryU15, got[0].ResolvedCategory)
	f.matches.AssertExpectations(t)
}

func TestListSeasonMatches_fallbackCategoryResolvedInMemory(t *testing.T) {
	f := newMatchFixture()
	fallback := models.CategoryFallback
	f.seasons.On("GetByID", mock.Anything, 1).Return(&models.Season{ID: 1}, nil)
	f.teams.On("ListBySeason", mock.Anything, 1).Return([]models.Team{{ID: 1, Category: models.CategoryU15}}, nil)

	orphan := *matchWithStatus(2, models.MatchStatusScheduled)
	orphan.TeamID = 99
	f.matches.On("ListBySeason", mock.Anything, 1, repositories.MatchFilter{}).
		Return([]models.MatchRecord{*matchWithStatus(1, models.MatchStatusScheduled), orphan}, nil)

	got, err := f.service.ListSeasonMatches(context.Background(), 1, repositories.MatchFilter{Category: &fallback})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestGetMatch_readModel(t *testing.T) {
	f := newMatchFixture()
	m := scored(matchWithStatus(5, models.MatchStatusFinished), 2, 1)
	m.OpponentName = nil
	m.OpponentID = intPtr(3)
	f.matches.On("GetByID", mock.Anything, 5).Return(m, nil)
	f.teams.On("GetByID", mock.Anything, 1).Return(&models.Team{ID: 1, Category: models.CategorySenior}, nil)
	f.opponents.On("GetByID", mock.Anything, 3).Return(&models.OpponentTeam{ID: 3, Name: "AS Rivale"}, nil)
	f.events.On("ListByMatch", mock.Anything, 5).Return([]models.MatchEvent{{ID: 1, MatchID: 5, Type: models.EventGoal, Minute: 10}}, nil)
	f.lineups.On("ListByMatch", mock.Anything, 5).Return([]models.LineupEntry{}, nil)
	f.players.On("GetByIDs", mock.Anything, []int{}).Return(map[int]models.Player{}, nil)

	got, err := f.service.GetMatch(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "AS Rivale", got.OpponentLabel())
	assert.Nil(t, got.Category, "stored category stays empty when inherited")
	assert.Equal(t, models.CategorySenior, got.ResolvedCategory)
	assert.Len(t, got.Events, 1)
	require.NotNil(t, got.Lineup)
	assert.Empty(t, got.Lineup.Starters)
}
