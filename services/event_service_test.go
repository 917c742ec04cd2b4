package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/repositories/mockrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type eventFixture struct {
	events   *mockrepo.EventRepository
	matches  *mockrepo.MatchRepository
	players  *mockrepo.PlayerRepository
	notifier *recordingNotifier
	service  EventService
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		events:   &mockrepo.EventRepository{},
		matches:  &mockrepo.MatchRepository{},
		players:  &mockrepo.PlayerRepository{},
		notifier: &recordingNotifier{},
	}
	f.service = NewEventService(f.events, f.matches, f.players, f.notifier, fakeClock(), discardLogger())
	return f
}

func TestAddEvent_validation(t *testing.T) {
	tests := map[string]struct {
		input     AddEventInput
		wantField string
	}{
		"substitution without leaving player": {
			input:     AddEventInput{Type: models.EventSubstitution, PlayerID: intPtr(1), Minute: 60},
			wantField: "substituted_player_id",
		},
		"substitution without entering player": {
			input:     AddEventInput{Type: models.EventSubstitution, SubstitutedPlayerID: intPtr(2), Minute: 60},
			wantField: "player_id",
		},
		"same player on and off": {
			input:     AddEventInput{Type: models.EventSubstitution, PlayerID: intPtr(1), SubstitutedPlayerID: intPtr(1), Minute: 60},
			wantField: "substituted_player_id",
		},
		"goal with leaving player": {
			input:     AddEventInput{Type: models.EventGoal, PlayerID: intPtr(1), SubstitutedPlayerID: intPtr(2), Minute: 60},
			wantField: "substituted_player_id",
		},
		"minute zero": {
			input:     AddEventInput{Type: models.EventGoal, PlayerID: intPtr(1), Minute: 0},
			wantField: "minute",
		},
		"minute 121": {
			input:     AddEventInput{Type: models.EventYellowCard, PlayerID: intPtr(1), Minute: 121},
			wantField: "minute",
		},
		"unknown type": {
			input:     AddEventInput{Type: "assist", PlayerID: intPtr(1), Minute: 10},
			wantField: "type",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newEventFixture()

			_, err := f.service.AddEvent(context.Background(), 5, tc.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.wantField)
			f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAddEvent_boundaryMinutesAccepted(t *testing.T) {
	for _, minute := range []int{models.MinEventMinute, models.MaxEventMinute} {
		f := newEventFixture()
		f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
		f.events.On("Create", mock.Anything, mock.AnythingOfType("*models.MatchEvent")).Return(nil)

		_, err := f.service.AddEvent(context.Background(), 5, AddEventInput{Type: models.EventInjury, Minute: minute})
		assert.NoError(t, err, "minute %d", minute)
	}
}

func TestAddEvent_rejectedOnCancelledMatch(t *testing.T) {
	f := newEventFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusCancelled), nil)

	_, err := f.service.AddEvent(context.Background(), 5, AddEventInput{Type: models.EventGoal, PlayerID: intPtr(1), Minute: 10})
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestAddEvent_unknownPlayer(t *testing.T) {
	f := newEventFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
	f.players.On("GetByIDs", mock.Anything, []int{7, 8}).Return(map[int]models.Player{7: {ID: 7}}, nil)

	_, err := f.service.AddEvent(context.Background(), 5, AddEventInput{
		Type: models.EventSubstitution, PlayerID: intPtr(7), SubstitutedPlayerID: intPtr(8), Minute: 70,
	})

	var rerr *ReferentialError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 8, rerr.ID)
}

func TestAddEvent_recordsWithoutTouchingScore(t *testing.T) {
	f := newEventFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(scored(matchWithStatus(5, models.MatchStatusLive), 0, 0), nil)
	f.players.On("GetByIDs", mock.Anything, []int{7}).Return(map[int]models.Player{7: {ID: 7}}, nil)
	f.events.On("Create", mock.Anything, mock.AnythingOfType("*models.MatchEvent")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.MatchEvent).ID = 99 }).
		Return(nil)

	e, err := f.service.AddEvent(context.Background(), 5, AddEventInput{
		Type: models.EventGoal, PlayerID: intPtr(7), Minute: 23, Description: strPtr("  header  "),
	})
	require.NoError(t, err)

	assert.Equal(t, 99, e.ID)
	assert.Equal(t, "header", *e.Description)
	f.matches.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	require.Len(t, f.notifier.got, 1)
	assert.Equal(t, notify.KindEventAdded, f.notifier.got[0].Kind)
	assert.Equal(t, 99, f.notifier.got[0].Event.ID)
}

func TestRemoveEvent(t *testing.T) {
	f := newEventFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
	f.events.On("Delete", mock.Anything, 5, 99).Return(nil).Once()
	f.events.On("Delete", mock.Anything, 5, 99).Return(repositories.ErrEventNotFound)

	require.NoError(t, f.service.RemoveEvent(context.Background(), 5, 99))

	err := f.service.RemoveEvent(context.Background(), 5, 99)
	var rerr *ReferentialError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "event", rerr.Entity)
}

func TestListEvents_emptyLedger(t *testing.T) {
	f := newEventFixture()
	f.matches.On("GetByID", mock.Anything, 5).Return(matchWithStatus(5, models.MatchStatusLive), nil)
	f.events.On("ListByMatch", mock.Anything, 5).Return(nil, nil)

	events, err := f.service.ListEvents(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
