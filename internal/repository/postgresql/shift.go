package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, user_id, start_time, end_time, duration, project, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.Duration, &s.Project,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (id, user_id, start_time, project)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, s.ID, s.UserID, s.StartTime, s.Project))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string, userID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND user_id = $2`

	found, err := scanShift(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return found, nil
}

// GetActive implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetActive(ctx context.Context, userID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE user_id = $1
		  AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`

	found, err := scanShift(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, fmt.Errorf("no active shift found: %w", err)
		}
		return shift.Shift{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	return found, nil
}

// Stop implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Stop(ctx context.Context, s shift.Shift) (shift.Shift, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET end_time = $3, duration = $4::numeric, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND end_time IS NULL
		RETURNING ` + shiftColumns

	stopped, err := scanShift(q.QueryRow(ctx, query, s.ID, s.UserID, s.EndTime, s.Duration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, false, nil
		}
		return shift.Shift{}, false, fmt.Errorf("failed to stop shift: %w", err)
	}

	return stopped, true, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, userID string, from, to *time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"user_id = $1"}
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		whereClauses = append(whereClauses, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		whereClauses = append(whereClauses, fmt.Sprintf("start_time < $%d", len(args)))
	}

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY start_time DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}
