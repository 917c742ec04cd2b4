// Package notify pushes match changes to live subscribers and the message
// bus. Delivery is best effort: callers log failures and carry on.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/club-system/models"
)

type Kind string

const (
	KindMatchCreated   Kind = "created"
	KindMatchUpdated   Kind = "updated"
	KindStatusChanged  Kind = "status_changed"
	KindScoreUpdated   Kind = "score_updated"
	KindMatchFinished  Kind = "finished"
	KindMatchDeleted   Kind = "deleted"
	KindEventAdded     Kind = "event_added"
	KindEventRemoved   Kind = "event_removed"
	KindLineupReplaced Kind = "lineup_replaced"
)

type MatchNotification struct {
	Kind      Kind               `json:"kind"`
	MatchID   int                `json:"match_id"`
	TeamID    int                `json:"team_id"`
	Status    models.MatchStatus `json:"status"`
	HomeScore *int               `json:"home_score"`
	AwayScore *int               `json:"away_score"`
	Event     *models.MatchEvent `json:"event,omitempty"`
	At        time.Time          `json:"at"`
}

// FromMatch fills the match fields of a notification.
func FromMatch(kind Kind, m *models.MatchRecord, at time.Time) MatchNotification {
	return MatchNotification{
		Kind:      kind,
		MatchID:   m.ID,
		TeamID:    m.TeamID,
		Status:    m.Status,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		At:        at,
	}
}

type Notifier interface {
	Notify(ctx context.Context, n MatchNotification) error
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, MatchNotification) error { return nil }

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n MatchNotification) error {
	var errs []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
