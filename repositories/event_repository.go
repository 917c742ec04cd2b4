package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound      = errors.New("match event not found")
	ErrEventMatchInvalid  = errors.New("event match does not exist")
	ErrEventPlayerInvalid = errors.New("event player does not exist")
)

// EventRepository is append-only: events are inserted or deleted, never
// updated.
type EventRepository interface {
	Create(ctx context.Context, event *models.MatchEvent) error
	Delete(ctx context.Context, matchID, eventID int) error
	ListByMatch(ctx context.Context, matchID int) ([]models.MatchEvent, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchEvent, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, match_id, type, player_id, substituted_player_id, minute, description, created_at`

func (r *postgresEventRepository) Create(ctx context.Context, event *models.MatchEvent) error {
	query := `
		INSERT INTO match_events (match_id, type, player_id, substituted_player_id, minute, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.MatchID,
		event.Type,
		event.PlayerID,
		event.SubstitutedPlayerID,
		event.Minute,
		event.Description,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqForeignKeyViolation {
			if pqErr.Constraint == "match_events_match_id_fkey" {
				return ErrEventMatchInvalid
			}
			return ErrEventPlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresEventRepository) Delete(ctx context.Context, matchID, eventID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_events WHERE id = $1 AND match_id = $2`, eventID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) ListByMatch(ctx context.Context, matchID int) ([]models.MatchEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM match_events WHERE match_id = $1 ORDER BY minute ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *postgresEventRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchEvent, error) {
	if len(matchIDs) == 0 {
		return []models.MatchEvent{}, nil
	}

	query := `SELECT ` + eventColumns + ` FROM match_events WHERE match_id = ANY($1) ORDER BY match_id ASC, minute ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.MatchEvent, error) {
	defer rows.Close()

	events := make([]models.MatchEvent, 0)
	for rows.Next() {
		var (
			e           models.MatchEvent
			playerID    sql.NullInt64
			substituted sql.NullInt64
			description sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Type, &playerID, &substituted, &e.Minute, &description, &e.CreatedAt); err != nil {
			return nil, err
		}
		if playerID.Valid {
			v := int(playerID.Int64)
			e.PlayerID = &v
		}
		if substituted.Valid {
			v := int(substituted.Int64)
			e.SubstitutedPlayerID = &v
		}
		if description.Valid {
			e.Description = &description.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
