package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
)

var (
	ErrOpponentNotFound     = errors.New("opponent team not found")
	ErrOpponentNameConflict = errors.New("opponent team name already exists")
)

type OpponentRepository interface {
	Create(ctx context.Context, opponent *models.OpponentTeam) error
	GetByID(ctx context.Context, id int) (*models.OpponentTeam, error)
	List(ctx context.Context) ([]models.OpponentTeam, error)
}

type postgresOpponentRepository struct {
	db *sql.DB
}

func NewPostgresOpponentRepository(db *sql.DB) OpponentRepository {
	return &postgresOpponentRepository{db: db}
}

const opponentColumns = `id, name, rank, won, drawn, lost, goals_for, goals_against, created_at`

func scanOpponent(row rowScanner) (*models.OpponentTeam, error) {
	var o models.OpponentTeam
	var rank sql.NullInt64
	err := row.Scan(&o.ID, &o.Name, &rank, &o.Won, &o.Drawn, &o.Lost, &o.GoalsFor, &o.GoalsAgainst, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOpponentNotFound
		}
		return nil, err
	}
	if rank.Valid {
		v := int(rank.Int64)
		o.Rank = &v
	}
	return &o, nil
}

func (r *postgresOpponentRepository) Create(ctx context.Context, opponent *models.OpponentTeam) error {
	query := `
		INSERT INTO opponent_teams (name, rank, won, drawn, lost, goals_for, goals_against)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		opponent.Name,
		opponent.Rank,
		opponent.Won,
		opponent.Drawn,
		opponent.Lost,
		opponent.GoalsFor,
		opponent.GoalsAgainst,
	).Scan(&opponent.ID, &opponent.CreatedAt)
	if err != nil {
		if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqUniqueViolation {
			return ErrOpponentNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresOpponentRepository) GetByID(ctx context.Context, id int) (*models.OpponentTeam, error) {
	query := `SELECT ` + opponentColumns + ` FROM opponent_teams WHERE id = $1`
	return scanOpponent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresOpponentRepository) List(ctx context.Context) ([]models.OpponentTeam, error) {
	query := `SELECT ` + opponentColumns + ` FROM opponent_teams ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opponents := make([]models.OpponentTeam, 0)
	for rows.Next() {
		o, err := scanOpponent(rows)
		if err != nil {
			return nil, err
		}
		opponents = append(opponents, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return opponents, nil
}
