package models

// Outcome is a single W/D/L result from the owning team's point of view.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

// TeamStanding is the derived line of a team in its category table.
type TeamStanding struct {
	Rank           int       `json:"rank"`
	Team           Team      `json:"team"`
	Category       Category  `json:"category"`
	Played         int       `json:"played"`
	Wins           int       `json:"wins"`
	Draws          int       `json:"draws"`
	Losses         int       `json:"losses"`
	GoalsFor       int       `json:"goals_for"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	Points         int       `json:"points"`
	Form           []Outcome `json:"form"`
}

type CategoryStandings struct {
	Category Category       `json:"category"`
	Rows     []TeamStanding `json:"rows"`
}

type TopScorer struct {
	Player     Player   `json:"player"`
	PlayerName string   `json:"player_name"`
	Team       Team     `json:"team"`
	Category   Category `json:"category"`
	Goals      int      `json:"goals"`
}
