package models

type LineupRole string

const (
	LineupRoleStarter    LineupRole = "starter"
	LineupRoleSubstitute LineupRole = "substitute"
)

func (r LineupRole) IsValid() bool {
	return r == LineupRoleStarter || r == LineupRoleSubstitute
}

const (
	MinStartingPosition = 1
	MaxStartingPosition = 11
)

type LineupEntry struct {
	ID               int        `json:"id" db:"id"`
	MatchID          int        `json:"match_id" db:"match_id"`
	PlayerID         int        `json:"player_id" db:"player_id"`
	Role             LineupRole `json:"role" db:"role"`
	StartingPosition *int       `json:"starting_position,omitempty" db:"starting_position"`
	JerseyNumber     *int       `json:"jersey_number,omitempty" db:"jersey_number"`
	SortOrder        int        `json:"-" db:"sort_order"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// Lineup is the read model of a match lineup: starters by position, then
// substitutes in the order they were submitted.
type Lineup struct {
	MatchID     int           `json:"match_id"`
	Starters    []LineupEntry `json:"starters"`
	Substitutes []LineupEntry `json:"substitutes"`
}
