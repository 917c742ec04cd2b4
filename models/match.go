package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusPostponed MatchStatus = "postponed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusLive, MatchStatusFinished, MatchStatusPostponed, MatchStatusCancelled:
		return true
	}
	return false
}

// Orientation tells which score slot the owning team occupies.
type Orientation string

const (
	OrientationHome Orientation = "home"
	OrientationAway Orientation = "away"
)

func (o Orientation) IsValid() bool {
	return o == OrientationHome || o == OrientationAway
}

// MatchRecord is one team's view of a fixture. A game between two of the
// club's own teams is stored as two unrelated records, one per team.
type MatchRecord struct {
	ID           int         `json:"id" db:"id"`
	TeamID       int         `json:"team_id" db:"team_id"`
	Category     *Category   `json:"category,omitempty" db:"category"`
	OpponentName *string     `json:"opponent_name,omitempty" db:"opponent_name"`
	OpponentID   *int        `json:"opponent_id,omitempty" db:"opponent_id"`
	ScheduledAt  time.Time   `json:"scheduled_at" db:"scheduled_at"`
	Venue        string      `json:"venue" db:"venue"`
	Orientation  Orientation `json:"orientation" db:"orientation"`
	Status       MatchStatus `json:"status" db:"status"`
	HomeScore    *int        `json:"home_score" db:"home_score"`
	AwayScore    *int        `json:"away_score" db:"away_score"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	// Category above is the stored value and stays nil when the team's
	// category applies. ResolvedCategory is always set on read models and is
	// the value clients group by; see MatchCategory.
	ResolvedCategory Category `json:"resolved_category,omitempty" db:"-"`

	Team     *Team         `json:"team,omitempty" db:"-"`
	Opponent *OpponentTeam `json:"opponent,omitempty" db:"-"`
	Events   []MatchEvent  `json:"events,omitempty" db:"-"`
	Lineup   *Lineup       `json:"lineup,omitempty" db:"-"`
}

func (m *MatchRecord) HasScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// TeamScores returns (for, against) from the owning team's point of view.
// ok is false when either slot is empty.
func (m *MatchRecord) TeamScores() (goalsFor, goalsAgainst int, ok bool) {
	if !m.HasScore() {
		return 0, 0, false
	}
	if m.Orientation == OrientationAway {
		return *m.AwayScore, *m.HomeScore, true
	}
	return *m.HomeScore, *m.AwayScore, true
}

// OpponentLabel is the display name of the other side.
func (m *MatchRecord) OpponentLabel() string {
	if m.Opponent != nil && m.Opponent.Name != "" {
		return m.Opponent.Name
	}
	if m.OpponentName != nil {
		return *m.OpponentName
	}
	return ""
}
