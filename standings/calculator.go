// Package standings derives league tables and scorer rankings from match
// records. Everything here is pure: the same input always produces the same
// output and nothing is written anywhere.
package standings

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Dosada05/club-system/models"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1

	// FormLength is how many finished matches make up a team's form.
	FormLength = 5
)

type Calculator struct {
	logger *slog.Logger
}

func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// Compute builds one ranked table per category for the given teams. Matches
// that do not belong to one of the teams are ignored.
func (c *Calculator) Compute(ctx context.Context, teams []models.Team, matches []models.MatchRecord) []models.CategoryStandings {
	byTeam := make(map[int][]models.MatchRecord, len(teams))
	for _, m := range matches {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}

	ordered := make([]models.Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	groups := make(map[models.Category][]models.TeamStanding)
	for _, team := range ordered {
		row := c.TeamStanding(ctx, team, byTeam[team.ID])
		groups[row.Category] = append(groups[row.Category], row)
	}

	categories := make([]models.Category, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		ri, rj := models.CategoryRank(categories[i]), models.CategoryRank(categories[j])
		if ri != rj {
			return ri < rj
		}
		return categories[i] < categories[j]
	})

	result := make([]models.CategoryStandings, 0, len(categories))
	for _, cat := range categories {
		rows := groups[cat]
		Rank(rows)
		result = append(result, models.CategoryStandings{Category: cat, Rows: rows})
	}
	return result
}

// TeamStanding aggregates the finished matches of one team. Finished matches
// without a complete score are skipped and logged.
func (c *Calculator) TeamStanding(ctx context.Context, team models.Team, matches []models.MatchRecord) models.TeamStanding {
	row := models.TeamStanding{
		Team:     team,
		Category: models.TeamCategory(&team),
		Form:     []models.Outcome{},
	}

	counted := make([]models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.TeamID != team.ID || m.Status != models.MatchStatusFinished {
			continue
		}
		goalsFor, goalsAgainst, ok := m.TeamScores()
		if !ok {
			c.logger.WarnContext(ctx, "finished match without score excluded from standings",
				slog.Int("match_id", m.ID), slog.Int("team_id", team.ID))
			continue
		}
		if goalsFor < 0 || goalsAgainst < 0 {
			c.logger.WarnContext(ctx, "finished match with negative score excluded from standings",
				slog.Int("match_id", m.ID), slog.Int("team_id", team.ID))
			continue
		}

		row.Played++
		row.GoalsFor += goalsFor
		row.GoalsAgainst += goalsAgainst
		switch outcomeOf(goalsFor, goalsAgainst) {
		case models.OutcomeWin:
			row.Wins++
		case models.OutcomeDraw:
			row.Draws++
		}
		counted = append(counted, m)
	}

	row.Losses = row.Played - row.Wins - row.Draws
	row.Points = row.Wins*pointsPerWin + row.Draws*pointsPerDraw
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	row.Form = form(counted)
	return row
}

// Rank sorts rows in place by points, goal difference, goals for and finally
// team id, then numbers them from 1.
func Rank(rows []models.TeamStanding) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team.ID < b.Team.ID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// form returns the outcomes of the most recent FormLength matches, oldest
// first. Matches sharing a kick-off time are ordered by id.
func form(matches []models.MatchRecord) []models.Outcome {
	recent := make([]models.MatchRecord, len(matches))
	copy(recent, matches)
	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].ScheduledAt.Equal(recent[j].ScheduledAt) {
			return recent[i].ScheduledAt.After(recent[j].ScheduledAt)
		}
		return recent[i].ID > recent[j].ID
	})
	if len(recent) > FormLength {
		recent = recent[:FormLength]
	}

	out := make([]models.Outcome, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		goalsFor, goalsAgainst, _ := recent[i].TeamScores()
		out = append(out, outcomeOf(goalsFor, goalsAgainst))
	}
	return out
}

func outcomeOf(goalsFor, goalsAgainst int) models.Outcome {
	switch {
	case goalsFor > goalsAgainst:
		return models.OutcomeWin
	case goalsFor == goalsAgainst:
		return models.OutcomeDraw
	default:
		return models.OutcomeLoss
	}
}
