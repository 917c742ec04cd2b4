package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/repositories/mockrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		teams, seasons := &mockrepo.TeamRepository{}, &mockrepo.SeasonRepository{}

		_, err := NewTeamService(teams, seasons).CreateTeam(context.Background(), 1, CreateTeamInput{Name: "A", Category: "U9"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "must be one of U11, U13, U15, U17, U19, Senior, Feminines", verr.Fields["category"])
		seasons.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown season", func(t *testing.T) {
		teams, seasons := &mockrepo.TeamRepository{}, &mockrepo.SeasonRepository{}
		seasons.On("GetByID", mock.Anything, 4).Return(nil, repositories.ErrSeasonNotFound)

		_, err := NewTeamService(teams, seasons).CreateTeam(context.Background(), 4, CreateTeamInput{Name: "A", Category: models.CategoryU13})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("active by default", func(t *testing.T) {
		teams, seasons := &mockrepo.TeamRepository{}, &mockrepo.SeasonRepository{}
		seasons.On("GetByID", mock.Anything, 1).Return(&models.Season{ID: 1}, nil)
		teams.On("Create", mock.Anything, mock.AnythingOfType("*models.Team")).Return(nil)

		team, err := NewTeamService(teams, seasons).CreateTeam(context.Background(), 1, CreateTeamInput{Name: " U13 A ", Category: models.CategoryU13})
		require.NoError(t, err)
		assert.Equal(t, "U13 A", team.Name)
		assert.True(t, team.IsActive)
		assert.Equal(t, 1, team.Season.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		teams, seasons := &mockrepo.TeamRepository{}, &mockrepo.SeasonRepository{}
		seasons.On("GetByID", mock.Anything, 1).Return(&models.Season{ID: 1}, nil)
		teams.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrTeamNameConflict)

		_, err := NewTeamService(teams, seasons).CreateTeam(context.Background(), 1, CreateTeamInput{Name: "A", Category: models.CategoryU13})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCreateOpponent_negativeRecord(t *testing.T) {
	repo := &mockrepo.OpponentRepository{}

	_, err := NewOpponentService(repo).CreateOpponent(context.Background(), CreateOpponentInput{Name: "FC Voisins", Lost: -1, Rank: intPtr(0)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lost")
	assert.Contains(t, verr.Fields, "rank")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListOpponents_neverNil(t *testing.T) {
	repo := &mockrepo.OpponentRepository{}
	repo.On("List", mock.Anything).Return(nil, nil)

	opponents, err := NewOpponentService(repo).ListOpponents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, opponents)
}
