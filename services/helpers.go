package services

import (
	"log/slog"
	"strings"

	"github.com/Dosada05/club-system/models"
)

func unknownCategoryMessage() string {
	known := models.Categories()
	names := make([]string, len(known))
	for i, c := range known {
		names[i] = string(c)
	}
	return "must be one of " + strings.Join(names, ", ")
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// allowedTransitions lists the lifecycle edges a match may take without an
// administrative override. Terminal states have none.
var allowedTransitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusScheduled: {models.MatchStatusLive, models.MatchStatusPostponed, models.MatchStatusCancelled},
	models.MatchStatusLive:      {models.MatchStatusFinished},
	models.MatchStatusFinished:  {},
	models.MatchStatusPostponed: {},
	models.MatchStatusCancelled: {},
}

func isValidStatusTransition(current, next models.MatchStatus) bool {
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func containsStatus(list []models.MatchStatus, s models.MatchStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clampLimit(limit, fallback, upper int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > upper {
		return upper
	}
	return limit
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
