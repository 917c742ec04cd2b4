package repositories

import (
	"context"
	"testing"

	"github.com/Dosada05/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineupRepository_replaceAndOrder(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresLineupRepository(testDB)

	team := seedTeam(t, seedSeason(t).ID, models.CategorySenior)
	m := seedMatch(t, team.ID, kickoff)
	keeper, striker, bench := seedPlayer(t, 1), seedPlayer(t, 9), seedPlayer(t, 14)

	pos1, pos9 := 1, 9
	entries := []models.LineupEntry{
		{PlayerID: bench.ID, Role: models.LineupRoleSubstitute},
		{PlayerID: striker.ID, Role: models.LineupRoleStarter, StartingPosition: &pos9},
		{PlayerID: keeper.ID, Role: models.LineupRoleStarter, StartingPosition: &pos1},
	}
	require.NoError(t, repo.Replace(ctx, m.ID, entries))

	got, err := repo.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, keeper.ID, got[0].PlayerID)
	assert.Equal(t, striker.ID, got[1].PlayerID)
	assert.Equal(t, bench.ID, got[2].PlayerID)

	// a second replace drops the previous entries
	require.NoError(t, repo.Replace(ctx, m.ID, entries[:1]))
	got, err = repo.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLineupRepository_duplicatePositionRollsBack(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresLineupRepository(testDB)

	team := seedTeam(t, seedSeason(t).ID, models.CategorySenior)
	m := seedMatch(t, team.ID, kickoff)
	a, b := seedPlayer(t, 4), seedPlayer(t, 5)

	pos := 3
	require.NoError(t, repo.Replace(ctx, m.ID, []models.LineupEntry{
		{PlayerID: a.ID, Role: models.LineupRoleStarter, StartingPosition: &pos},
	}))

	err := repo.Replace(ctx, m.ID, []models.LineupEntry{
		{PlayerID: a.ID, Role: models.LineupRoleStarter, StartingPosition: &pos},
		{PlayerID: b.ID, Role: models.LineupRoleStarter, StartingPosition: &pos},
	})
	assert.ErrorIs(t, err, ErrLineupPositionConflict)

	got, err := repo.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].PlayerID)
}
