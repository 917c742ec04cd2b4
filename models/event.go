package models

import "time"

type MatchEventType string

const (
	EventGoal          MatchEventType = "goal"
	EventPenalty       MatchEventType = "penalty"
	EventOwnGoal       MatchEventType = "own_goal"
	EventMissedPenalty MatchEventType = "missed_penalty"
	EventYellowCard    MatchEventType = "yellow_card"
	EventRedCard       MatchEventType = "red_card"
	EventInjury        MatchEventType = "injury"
	EventSubstitution  MatchEventType = "substitution"
)

func (t MatchEventType) IsValid() bool {
	switch t {
	case EventGoal, EventPenalty, EventOwnGoal, EventMissedPenalty,
		EventYellowCard, EventRedCard, EventInjury, EventSubstitution:
		return true
	}
	return false
}

// CountsAsScorerGoal reports whether the event is credited to the player's
// scoring total. Own goals and missed penalties never are.
func (t MatchEventType) CountsAsScorerGoal() bool {
	return t == EventGoal || t == EventPenalty
}

const (
	MinEventMinute = 1
	MaxEventMinute = 120
)

// MatchEvent is an entry of the append-only ledger of a match. For a
// substitution PlayerID is the player coming on and SubstitutedPlayerID the
// one leaving.
type MatchEvent struct {
	ID                  int            `json:"id" db:"id"`
	MatchID             int            `json:"match_id" db:"match_id"`
	Type                MatchEventType `json:"type" db:"type"`
	PlayerID            *int           `json:"player_id,omitempty" db:"player_id"`
	SubstitutedPlayerID *int           `json:"substituted_player_id,omitempty" db:"substituted_player_id"`
	Minute              int            `json:"minute" db:"minute"`
	Description         *string        `json:"description,omitempty" db:"description"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
}
