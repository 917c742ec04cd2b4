package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/club-system/models"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name conflict")
	ErrSeasonInUse        = errors.New("season cannot be deleted as teams reference it")
	// ErrSeasonActivationConflict is returned when a concurrent activation
	// committed first.
	ErrSeasonActivationConflict = errors.New("another season was activated concurrently")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	GetActive(ctx context.Context) (*models.Season, error)
	List(ctx context.Context) ([]models.Season, error)
	// Activate marks one season active and every other one inactive in a
	// single transaction.
	Activate(ctx context.Context, id int, at time.Time) (*models.Season, error)
	Delete(ctx context.Context, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

const seasonColumns = `id, name, start_date, end_date, is_active, activated_at, created_at`

func scanSeason(row rowScanner) (*models.Season, error) {
	var s models.Season
	var activatedAt sql.NullTime
	err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive, &activatedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if activatedAt.Valid {
		s.ActivatedAt = &activatedAt.Time
	}
	return &s, nil
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_date, end_date, is_active)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, is_active, created_at`

	err := r.db.QueryRowContext(ctx, query, season.Name, season.StartDate, season.EndDate).
		Scan(&season.ID, &season.IsActive, &season.CreatedAt)
	if err != nil {
		if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqUniqueViolation {
			return ErrSeasonNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`
	return scanSeason(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE is_active`
	return scanSeason(r.db.QueryRowContext(ctx, query))
}

func (r *postgresSeasonRepository) List(ctx context.Context) ([]models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons ORDER BY start_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]models.Season, 0)
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *postgresSeasonRepository) Activate(ctx context.Context, id int, at time.Time) (*models.Season, error) {
	var activated *models.Season
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the target row so a concurrent delete cannot slip in between.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT id FROM seasons WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSeasonNotFound
			}
			return err
		}

		// Deactivate first: the partial unique index is checked row by row.
		if _, err := tx.ExecContext(ctx, `UPDATE seasons SET is_active = FALSE WHERE is_active AND id <> $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE seasons SET is_active = TRUE, activated_at = $2 WHERE id = $1`, id, at); err != nil {
			if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqUniqueViolation {
				return ErrSeasonActivationConflict
			}
			return err
		}

		s, err := scanSeason(tx.QueryRowContext(ctx, `SELECT `+seasonColumns+` FROM seasons WHERE id = $1`, id))
		if err != nil {
			return err
		}
		activated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrSeasonInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}
