package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchTeamInvalid     = errors.New("match team does not exist")
	ErrMatchOpponentInvalid = errors.New("match opponent does not exist")
	// ErrMatchStatusChanged is returned by conditional writes when the match
	// exists but is no longer in one of the expected states.
	ErrMatchStatusChanged = errors.New("match status changed concurrently")
)

// MatchFilter narrows ListBySeason. Nil fields do not filter.
type MatchFilter struct {
	Status   *models.MatchStatus
	Category *models.Category
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.MatchRecord) error
	GetByID(ctx context.Context, id int) (*models.MatchRecord, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.MatchRecord, error)
	ListBySeason(ctx context.Context, seasonID int, filter MatchFilter) ([]models.MatchRecord, error)
	ListUpcoming(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error)
	ListRecent(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error)

	// The writes below only apply while the match is in one of the from
	// states. A nil from slice means any state.
	UpdateDetails(ctx context.Context, match *models.MatchRecord, from []models.MatchStatus) (*models.MatchRecord, error)
	UpdateStatus(ctx context.Context, id int, to models.MatchStatus, from []models.MatchStatus) (*models.MatchRecord, error)
	UpdateScore(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error)
	Finish(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error)
	Reschedule(ctx context.Context, id int, at time.Time, from []models.MatchStatus) (*models.MatchRecord, error)

	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `m.id, m.team_id, m.category, m.opponent_name, m.opponent_id, m.scheduled_at,
	m.venue, m.orientation, m.status, m.home_score, m.away_score, m.created_at, m.updated_at`

const matchReturning = `id, team_id, category, opponent_name, opponent_id, scheduled_at,
	venue, orientation, status, home_score, away_score, created_at, updated_at`

func scanMatch(row rowScanner) (*models.MatchRecord, error) {
	var (
		m            models.MatchRecord
		category     sql.NullString
		opponentName sql.NullString
		opponentID   sql.NullInt64
		homeScore    sql.NullInt64
		awayScore    sql.NullInt64
	)
	err := row.Scan(
		&m.ID,
		&m.TeamID,
		&category,
		&opponentName,
		&opponentID,
		&m.ScheduledAt,
		&m.Venue,
		&m.Orientation,
		&m.Status,
		&homeScore,
		&awayScore,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if category.Valid {
		c := models.Category(category.String)
		m.Category = &c
	}
	if opponentName.Valid {
		m.OpponentName = &opponentName.String
	}
	if opponentID.Valid {
		v := int(opponentID.Int64)
		m.OpponentID = &v
	}
	if homeScore.Valid {
		v := int(homeScore.Int64)
		m.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		m.AwayScore = &v
	}
	return &m, nil
}

func scanMatches(rows *sql.Rows) ([]models.MatchRecord, error) {
	defer rows.Close()

	matches := make([]models.MatchRecord, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.MatchRecord) error {
	query := `
		INSERT INTO matches
			(team_id, category, opponent_name, opponent_id, scheduled_at, venue, orientation, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TeamID,
		match.Category,
		match.OpponentName,
		match.OpponentID,
		match.ScheduledAt,
		match.Venue,
		match.Orientation,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}
	match.HomeScore, match.AwayScore = nil, nil
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.MatchRecord, error) {
	query := `SELECT ` + matchColumns + ` FROM matches m WHERE m.id = $1`
	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		WHERE m.team_id = $1
		ORDER BY m.scheduled_at ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListBySeason(ctx context.Context, seasonID int, filter MatchFilter) ([]models.MatchRecord, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t ON t.id = m.team_id
		WHERE t.season_id = $1`)

	args := []interface{}{seasonID}
	placeholderIndex := 2

	if filter.Status != nil {
		queryBuilder.WriteString(" AND m.status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}

	if filter.Category != nil {
		queryBuilder.WriteString(" AND COALESCE(m.category, t.category) = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Category)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY m.scheduled_at ASC, m.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListUpcoming(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t ON t.id = m.team_id
		WHERE t.season_id = $1 AND m.status = $2 AND m.scheduled_at >= $3
		ORDER BY m.scheduled_at ASC, m.id ASC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, seasonID, models.MatchStatusScheduled, now, limit)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListRecent(ctx context.Context, seasonID int, now time.Time, limit int) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN teams t ON t.id = m.team_id
		WHERE t.season_id = $1 AND m.status = $2 AND m.scheduled_at <= $3
		ORDER BY m.scheduled_at DESC, m.id DESC
		LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, seasonID, models.MatchStatusFinished, now, limit)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *postgresMatchRepository) UpdateDetails(ctx context.Context, match *models.MatchRecord, from []models.MatchStatus) (*models.MatchRecord, error) {
	query := `
		UPDATE matches
		SET category = $2, opponent_name = $3, opponent_id = $4, scheduled_at = $5,
		    venue = $6, orientation = $7, updated_at = NOW()
		WHERE id = $1 AND ($8::text[] IS NULL OR status = ANY($8))
		RETURNING ` + matchReturning

	row := r.db.QueryRowContext(ctx, query,
		match.ID,
		match.Category,
		match.OpponentName,
		match.OpponentID,
		match.ScheduledAt,
		match.Venue,
		match.Orientation,
		statusArray(from),
	)
	return r.conditionalResult(ctx, match.ID, row)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, to models.MatchStatus, from []models.MatchStatus) (*models.MatchRecord, error) {
	query := `
		UPDATE matches
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND ($3::text[] IS NULL OR status = ANY($3))
		RETURNING ` + matchReturning

	return r.conditionalResult(ctx, id, r.db.QueryRowContext(ctx, query, id, to, statusArray(from)))
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error) {
	query := `
		UPDATE matches
		SET home_score = $2, away_score = $3, updated_at = NOW()
		WHERE id = $1 AND ($4::text[] IS NULL OR status = ANY($4))
		RETURNING ` + matchReturning

	return r.conditionalResult(ctx, id, r.db.QueryRowContext(ctx, query, id, home, away, statusArray(from)))
}

// Finish writes the final score and the finished status in one statement.
func (r *postgresMatchRepository) Finish(ctx context.Context, id int, home, away int, from []models.MatchStatus) (*models.MatchRecord, error) {
	query := `
		UPDATE matches
		SET status = $2, home_score = $3, away_score = $4, updated_at = NOW()
		WHERE id = $1 AND ($5::text[] IS NULL OR status = ANY($5))
		RETURNING ` + matchReturning

	row := r.db.QueryRowContext(ctx, query, id, models.MatchStatusFinished, home, away, statusArray(from))
	return r.conditionalResult(ctx, id, row)
}

func (r *postgresMatchRepository) Reschedule(ctx context.Context, id int, at time.Time, from []models.MatchStatus) (*models.MatchRecord, error) {
	query := `
		UPDATE matches
		SET status = $2, scheduled_at = $3, updated_at = NOW()
		WHERE id = $1 AND ($4::text[] IS NULL OR status = ANY($4))
		RETURNING ` + matchReturning

	row := r.db.QueryRowContext(ctx, query, id, models.MatchStatusScheduled, at, statusArray(from))
	return r.conditionalResult(ctx, id, row)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// conditionalResult tells a missing match apart from one whose status did
// not satisfy the WHERE clause.
func (r *postgresMatchRepository) conditionalResult(ctx context.Context, id int, row *sql.Row) (*models.MatchRecord, error) {
	match, err := scanMatch(row)
	if err == nil {
		return match, nil
	}
	if !errors.Is(err, ErrMatchNotFound) {
		return nil, r.handleMatchError(err)
	}

	var exists bool
	if checkErr := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrMatchStatusChanged
	}
	return nil, ErrMatchNotFound
}

func statusArray(statuses []models.MatchStatus) interface{} {
	if statuses == nil {
		return nil
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return pq.Array(values)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqErrorCode(err); ok && pqErr.Code == pqForeignKeyViolation {
		switch pqErr.Constraint {
		case "matches_team_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_opponent_id_fkey":
			return ErrMatchOpponentInvalid
		}
	}
	return err
}
