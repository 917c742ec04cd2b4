package models

// Player is owned by the roster module; this core only reads it.
type Player struct {
	ID           int    `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	JerseyNumber *int   `json:"jersey_number,omitempty" db:"jersey_number"`
	TeamID       *int   `json:"team_id,omitempty" db:"team_id"`
}

// DisplayName joins first and last name. Players the roster no longer
// knows read as "N/A".
func (p *Player) DisplayName() string {
	if p == nil {
		return "N/A"
	}
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return "N/A"
	}
	return name
}
