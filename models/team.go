package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	SeasonID  int       `json:"season_id" db:"season_id"`
	Category  Category  `json:"category" db:"category"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Season *Season `json:"season,omitempty" db:"-"`
}

// OpponentTeam is an external club. Its record fields are maintained by hand
// and are informational only.
type OpponentTeam struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Rank         *int      `json:"rank,omitempty" db:"rank"`
	Won          int       `json:"won" db:"won"`
	Drawn        int       `json:"drawn" db:"drawn"`
	Lost         int       `json:"lost" db:"lost"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
