package handlers

import (
	"context"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/services"
	"github.com/stretchr/testify/mock"
)

type mockMatchService struct {
	mock.Mock
}

var _ services.MatchService = (*mockMatchService)(nil)

func matchResult(args mock.Arguments) (*models.MatchRecord, error) {
	var m *models.MatchRecord
	if args.Get(0) != nil {
		m = args.Get(0).(*models.MatchRecord)
	}
	return m, args.Error(1)
}

func matchesResult(args mock.Arguments) ([]models.MatchRecord, error) {
	var m []models.MatchRecord
	if args.Get(0) != nil {
		m = args.Get(0).([]models.MatchRecord)
	}
	return m, args.Error(1)
}

func (m *mockMatchService) CreateMatch(ctx context.Context, input services.CreateMatchInput) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, input))
}

func (m *mockMatchService) GetMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id))
}

func (m *mockMatchService) UpdateMatchDetails(ctx context.Context, id int, input services.UpdateMatchInput) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id, input))
}

func (m *mockMatchService) DeleteMatch(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMatchService) StartMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id))
}

func (m *mockMatchService) PostponeMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id))
}

func (m *mockMatchService) CancelMatch(ctx context.Context, id int) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id))
}

func (m *mockMatchService) RescheduleMatch(ctx context.Context, id int, input services.RescheduleInput) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id, input))
}

func (m *mockMatchService) SetScore(ctx context.Context, id int, input services.ScoreInput) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id, input))
}

func (m *mockMatchService) FinishMatch(ctx context.Context, id int, input services.ScoreInput) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id, input))
}

func (m *mockMatchService) CorrectStatus(ctx context.Context, id int, status models.MatchStatus, override bool) (*models.MatchRecord, error) {
	return matchResult(m.Called(ctx, id, status, override))
}

func (m *mockMatchService) ListTeamMatches(ctx context.Context, teamID int) ([]models.MatchRecord, error) {
	return matchesResult(m.Called(ctx, teamID))
}

func (m *mockMatchService) ListSeasonMatches(ctx context.Context, seasonID int, filter repositories.MatchFilter) ([]models.MatchRecord, error) {
	return matchesResult(m.Called(ctx, seasonID, filter))
}

func (m *mockMatchService) ListUpcoming(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error) {
	return matchesResult(m.Called(ctx, seasonID, limit))
}

func (m *mockMatchService) ListRecentResults(ctx context.Context, seasonID int, limit int) ([]models.MatchRecord, error) {
	return matchesResult(m.Called(ctx, seasonID, limit))
}

type mockStandingsService struct {
	mock.Mock
}

var _ services.StandingsService = (*mockStandingsService)(nil)

func (m *mockStandingsService) GetStandings(ctx context.Context, seasonID int) ([]models.CategoryStandings, error) {
	args := m.Called(ctx, seasonID)
	var s []models.CategoryStandings
	if args.Get(0) != nil {
		s = args.Get(0).([]models.CategoryStandings)
	}
	return s, args.Error(1)
}

func (m *mockStandingsService) GetTeamStanding(ctx context.Context, teamID int) (*models.TeamStanding, error) {
	args := m.Called(ctx, teamID)
	var s *models.TeamStanding
	if args.Get(0) != nil {
		s = args.Get(0).(*models.TeamStanding)
	}
	return s, args.Error(1)
}

func (m *mockStandingsService) GetTopScorers(ctx context.Context, seasonID int, category *models.Category, limit int) ([]models.TopScorer, error) {
	args := m.Called(ctx, seasonID, category, limit)
	var s []models.TopScorer
	if args.Get(0) != nil {
		s = args.Get(0).([]models.TopScorer)
	}
	return s, args.Error(1)
}

func (m *mockStandingsService) ArchiveSeason(ctx context.Context, seasonID int) (*services.SeasonArchive, error) {
	args := m.Called(ctx, seasonID)
	var a *services.SeasonArchive
	if args.Get(0) != nil {
		a = args.Get(0).(*services.SeasonArchive)
	}
	return a, args.Error(1)
}
