package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/notify"
	"github.com/jonboulle/clockwork"
)

var (
	testNow = time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)
	kickoff = time.Date(2025, 9, 6, 15, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(testNow)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.MatchNotification
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.MatchNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recordingNotifier) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, len(r.got))
	for i, n := range r.got {
		out[i] = n.Kind
	}
	return out
}

func matchWithStatus(id int, status models.MatchStatus) *models.MatchRecord {
	return &models.MatchRecord{
		ID:           id,
		TeamID:       1,
		OpponentName: strPtr("FC Voisins"),
		ScheduledAt:  kickoff,
		Orientation:  models.OrientationHome,
		Status:       status,
	}
}

func scored(m *models.MatchRecord, home, away int) *models.MatchRecord {
	m.HomeScore, m.AwayScore = intPtr(home), intPtr(away)
	return m
}
