package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
)

var (
	ErrLineupMatchInvalid     = errors.New("lineup match does not exist")
	ErrLineupPlayerInvalid    = errors.New("lineup player does not exist")
	ErrLineupDuplicatePlayer  = errors.New("player appears twice in the lineup")
	ErrLineupPositionConflict = errors.New("starting position used twice")
)

type LineupRepository interface {
	// Replace deletes the current lineup of the match and inserts entries in
	// one transaction.
	Replace(ctx context.Context, matchID int, entries []models.LineupEntry) error
	ListByMatch(ctx context.Context, matchID int) ([]models.LineupEntry, error)
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) Replace(ctx context.Context, matchID int, entries []models.LineupEntry) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lineup_entries WHERE match_id = $1`, matchID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO lineup_entries (match_id, player_id, role, starting_position, jersey_number, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range entries {
			e := &entries[i]
			e.MatchID = matchID
			e.SortOrder = i
			if err := stmt.QueryRowContext(ctx,
				matchID,
				e.PlayerID,
				e.Role,
				e.StartingPosition,
				e.JerseyNumber,
				e.SortOrder,
			).Scan(&e.ID); err != nil {
				return r.handleLineupError(err)
			}
		}
		return nil
	})
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, matchID int) ([]models.LineupEntry, error) {
	query := `
		SELECT id, match_id, player_id, role, starting_position, jersey_number, sort_order
		FROM lineup_entries
		WHERE match_id = $1
		ORDER BY CASE role WHEN 'starter' THEN 0 ELSE 1 END, starting_position ASC NULLS LAST, sort_order ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LineupEntry, 0)
	for rows.Next() {
		var (
			e        models.LineupEntry
			position sql.NullInt64
			jersey   sql.NullInt64
		)
		if scanErr := rows.Scan(&e.ID, &e.MatchID, &e.PlayerID, &e.Role, &position, &jersey, &e.SortOrder); scanErr != nil {
			return nil, scanErr
		}
		if position.Valid {
			v := int(position.Int64)
			e.StartingPosition = &v
		}
		if jersey.Valid {
			v := int(jersey.Int64)
			e.JerseyNumber = &v
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *postgresLineupRepository) handleLineupError(err error) error {
	pqErr, ok := pqErrorCode(err)
	if !ok {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		switch pqErr.Constraint {
		case "lineup_entries_match_id_fkey":
			return ErrLineupMatchInvalid
		case "lineup_entries_player_id_fkey":
			return ErrLineupPlayerInvalid
		}
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case "lineup_entries_match_id_player_id_key":
			return ErrLineupDuplicatePlayer
		case "lineup_entries_match_id_starting_position_key":
			return ErrLineupPositionConflict
		}
	}
	return err
}
