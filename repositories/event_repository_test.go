package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, matchID int, eventType models.MatchEventType, playerID *int, minute int) models.MatchEvent {
	t.Helper()
	e := models.MatchEvent{MatchID: matchID, Type: eventType, PlayerID: playerID, Minute: minute}
	require.NoError(t, NewPostgresEventRepository(testDB).Create(context.Background(), &e))
	return e
}

func eventIDs(events []models.MatchEvent) []int {
	ids := make([]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func TestEventRepository_listByMatchOrdersByMinuteThenInsertion(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresEventRepository(testDB)

	team := seedTeam(t, seedSeason(t).ID, models.CategoryU17)
	m := seedMatch(t, team.ID, kickoff)
	scorer := seedPlayer(t, 9)

	late := seedEvent(t, m.ID, models.EventGoal, &scorer.ID, 30)
	firstAtTen := seedEvent(t, m.ID, models.EventYellowCard, &scorer.ID, 10)
	secondAtTen := seedEvent(t, m.ID, models.EventPenalty, &scorer.ID, 10)

	got, err := repo.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{firstAtTen.ID, secondAtTen.ID, late.ID}, eventIDs(got))
	assert.Equal(t, []int{10, 10, 30}, []int{got[0].Minute, got[1].Minute, got[2].Minute})
	require.NotNil(t, got[0].PlayerID)
	assert.Equal(t, scorer.ID, *got[0].PlayerID)
}

func TestEventRepository_listByMatchIDsKeepsToRequestedMatches(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresEventRepository(testDB)

	team := seedTeam(t, seedSeason(t).ID, models.CategorySenior)
	a := seedMatch(t, team.ID, kickoff)
	b := seedMatch(t, team.ID, kickoff.Add(7*24*time.Hour))
	c := seedMatch(t, team.ID, kickoff.Add(14*24*time.Hour))

	a1 := seedEvent(t, a.ID, models.EventInjury, nil, 55)
	a2 := seedEvent(t, a.ID, models.EventOwnGoal, nil, 20)
	b1 := seedEvent(t, b.ID, models.EventRedCard, nil, 70)
	seedEvent(t, c.ID, models.EventInjury, nil, 5)

	got, err := repo.ListByMatchIDs(ctx, []int{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{a2.ID, a1.ID, b1.ID}, eventIDs(got))
	for _, e := range got {
		assert.NotEqual(t, c.ID, e.MatchID)
	}

	empty, err := repo.ListByMatchIDs(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestEventRepository_deleteIsScopedToMatch(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresEventRepository(testDB)

	team := seedTeam(t, seedSeason(t).ID, models.CategoryU13)
	a := seedMatch(t, team.ID, kickoff)
	b := seedMatch(t, team.ID, kickoff.Add(time.Hour))
	e := seedEvent(t, a.ID, models.EventInjury, nil, 12)

	assert.ErrorIs(t, repo.Delete(ctx, b.ID, e.ID), ErrEventNotFound)
	require.NoError(t, repo.Delete(ctx, a.ID, e.ID))

	got, err := repo.ListByMatch(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
