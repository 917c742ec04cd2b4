package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonRepository_activateLeavesExactlyOneActive(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresSeasonRepository(testDB)

	first := seedSeason(t)
	second := seedSeason(t)
	at := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	_, err := repo.Activate(ctx, first.ID, at)
	require.NoError(t, err)

	activated, err := repo.Activate(ctx, second.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	require.NotNil(t, activated.ActivatedAt)

	var active int
	require.NoError(t, testDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM seasons WHERE is_active`).Scan(&active))
	assert.Equal(t, 1, active)

	current, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestSeasonRepository_activateUnknown(t *testing.T) {
	requireDB(t)
	_, err := NewPostgresSeasonRepository(testDB).Activate(context.Background(), 999999, time.Now())
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestSeasonRepository_deleteInUse(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresSeasonRepository(testDB)

	s := seedSeason(t)
	seedTeam(t, s.ID, models.CategoryU13)

	assert.ErrorIs(t, repo.Delete(ctx, s.ID), ErrSeasonInUse)

	empty := seedSeason(t)
	require.NoError(t, repo.Delete(ctx, empty.ID))
	assert.ErrorIs(t, repo.Delete(ctx, empty.ID), ErrSeasonNotFound)
}

func TestSeasonRepository_duplicateName(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	s := seedSeason(t)

	dup := &models.Season{Name: s.Name, StartDate: s.StartDate, EndDate: s.EndDate}
	assert.ErrorIs(t, NewPostgresSeasonRepository(testDB).Create(ctx, dup), ErrSeasonNameConflict)
}
