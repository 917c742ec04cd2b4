package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/jonboulle/clockwork"
)

// matchNotifier stamps and delivers match notifications. Delivery failures
// are logged and never reach the caller.
type matchNotifier struct {
	notifier notify.Notifier
	clock    clockwork.Clock
	logger   *slog.Logger
}

func newMatchNotifier(n notify.Notifier, clock clockwork.Clock, logger *slog.Logger) matchNotifier {
	if n == nil {
		n = notify.Nop{}
	}
	return matchNotifier{notifier: n, clock: clock, logger: logger}
}

func (m matchNotifier) match(ctx context.Context, kind notify.Kind, match *models.MatchRecord) {
	m.send(ctx, notify.FromMatch(kind, match, m.clock.Now()))
}

func (m matchNotifier) event(ctx context.Context, kind notify.Kind, match *models.MatchRecord, event *models.MatchEvent) {
	n := notify.FromMatch(kind, match, m.clock.Now())
	n.Event = event
	m.send(ctx, n)
}

func (m matchNotifier) send(ctx context.Context, n notify.MatchNotification) {
	if err := m.notifier.Notify(ctx, n); err != nil {
		m.logger.ErrorContext(ctx, "failed to deliver match notification",
			slog.String("kind", string(n.Kind)),
			slog.Int("match_id", n.MatchID),
			slog.Any("error", err))
	}
}
