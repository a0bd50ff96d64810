package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/database"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

const profileColumns = `p.id, u.email, p.first_name, p.last_name, p.phone, p.birth_date, p.language, p.department, p.created_at, p.updated_at`

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.BirthDate,
		&p.Language, &p.Department, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			INSERT INTO profiles (id, first_name, last_name, phone, birth_date, language, department)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p JOIN users u ON u.id = p.id
	`

	created, err := scanProfile(q.QueryRow(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Phone, p.BirthDate, p.Language, p.Department,
	))
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return created, nil
}

// GetByUserID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.id = $1
	`

	found, err := scanProfile(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return found, nil
}

// Update implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			UPDATE profiles
			SET first_name = $2, last_name = $3, phone = $4, birth_date = $5,
				language = $6, department = $7, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p JOIN users u ON u.id = p.id
	`

	updated, err := scanProfile(q.QueryRow(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Phone, p.BirthDate, p.Language, p.Department,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated, nil
}
