package standings

import (
	"sort"

	"github.com/Dosada05/club-system/models"
)

// ScorerInput is everything the scorer ranking needs for one season.
type ScorerInput struct {
	Teams   []models.Team
	Matches []models.MatchRecord
	Events  []models.MatchEvent
	Players map[int]models.Player
}

// TopScorers counts goal and penalty events of finished matches per player.
// When category is set only matches resolving to that category count. The
// result is sorted by goals descending; equal totals keep the order in which
// players first scored. Scorelines are not consulted.
func TopScorers(in ScorerInput, category *models.Category) []models.TopScorer {
	teams := make(map[int]models.Team, len(in.Teams))
	for _, t := range in.Teams {
		teams[t.ID] = t
	}

	matches := make([]models.MatchRecord, 0, len(in.Matches))
	for _, m := range in.Matches {
		if m.Status != models.MatchStatusFinished {
			continue
		}
		if _, ok := teams[m.TeamID]; !ok {
			continue
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].ScheduledAt.Equal(matches[j].ScheduledAt) {
			return matches[i].ScheduledAt.Before(matches[j].ScheduledAt)
		}
		return matches[i].ID < matches[j].ID
	})

	eventsByMatch := make(map[int][]models.MatchEvent)
	for _, e := range in.Events {
		if !e.Type.CountsAsScorerGoal() || e.PlayerID == nil {
			continue
		}
		eventsByMatch[e.MatchID] = append(eventsByMatch[e.MatchID], e)
	}

	index := make(map[int]int)
	result := make([]models.TopScorer, 0)
	for _, m := range matches {
		team := teams[m.TeamID]
		matchCategory := models.MatchCategory(&m, &team)
		if category != nil && matchCategory != *category {
			continue
		}

		events := eventsByMatch[m.ID]
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Minute != events[j].Minute {
				return events[i].Minute < events[j].Minute
			}
			return events[i].ID < events[j].ID
		})

		for _, e := range events {
			playerID := *e.PlayerID
			pos, seen := index[playerID]
			if !seen {
				player, ok := in.Players[playerID]
				if !ok {
					player = models.Player{ID: playerID}
				}
				result = append(result, models.TopScorer{
					Player:     player,
					PlayerName: player.DisplayName(),
					Team:       team,
					Category:   matchCategory,
				})
				pos = len(result) - 1
				index[playerID] = pos
			}
			result[pos].Goals++
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Goals > result[j].Goals
	})
	return result
}
