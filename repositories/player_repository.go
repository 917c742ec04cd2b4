package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository is read-only: the roster is maintained elsewhere.
type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var jersey, teamID sql.NullInt64
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &jersey, &teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if jersey.Valid {
		v := int(jersey.Int64)
		p.JerseyNumber = &v
	}
	if teamID.Valid {
		v := int(teamID.Int64)
		p.TeamID = &v
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, first_name, last_name, jersey_number, team_id FROM players WHERE id = $1`
	return scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByIDs(ctx context.Context, ids []int) (map[int]models.Player, error) {
	players := make(map[int]models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	query := `SELECT id, first_name, last_name, jersey_number, team_id FROM players WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
