package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/repository/postgresql"
)

func newShiftID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func TestShiftRepository_StartStop(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, "mario@example.com")
	repo := postgresql.NewShiftRepository(testDB)
	start := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, shift.Shift{ID: newShiftID(t), UserID: u.ID, StartTime: start, Project: strPtr("Acme")})
	require.NoError(t, err)
	assert.True(t, created.IsActive())

	active, err := repo.GetActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)

	end := start.Add(90*time.Minute + 30*time.Second)
	duration := shift.DurationMinutes(start, end)
	active.EndTime, active.Duration = &end, &duration
	stopped, ok, err := repo.Stop(ctx, active)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "90.50", stopped.Duration.StringFixed(2))
	assert.True(t, stopped.EndTime.Equal(end))

	_, ok, err = repo.Stop(ctx, active)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetActive(ctx, u.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestShiftRepository_OneActivePerUser(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, "mario@example.com")
	repo := postgresql.NewShiftRepository(testDB)

	_, err := repo.Create(ctx, shift.Shift{ID: newShiftID(t), UserID: u.ID, StartTime: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, shift.Shift{ID: newShiftID(t), UserID: u.ID, StartTime: time.Now().UTC()})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}

func TestShiftRepository_ScopedToOwner(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	owner := createTestUser(t, ctx, "mario@example.com")
	other := createTestUser(t, ctx, "luigi@example.com")
	repo := postgresql.NewShiftRepository(testDB)

	created, err := repo.Create(ctx, shift.Shift{ID: newShiftID(t), UserID: owner.ID, StartTime: time.Now().UTC()})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID, other.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestShiftRepository_List(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, "mario@example.com")
	repo := postgresql.NewShiftRepository(testDB)

	for _, day := range []int{28, 1, 15} {
		month := time.March
		if day == 28 {
			month = time.February
		}
		start := time.Date(2024, month, day, 8, 0, 0, 0, time.UTC)
		end := start.Add(time.Hour)
		duration := shift.DurationMinutes(start, end)
		created, err := repo.Create(ctx, shift.Shift{ID: newShiftID(t), UserID: u.ID, StartTime: start})
		require.NoError(t, err)
		created.EndTime, created.Duration = &end, &duration
		_, ok, err := repo.Stop(ctx, created)
		require.NoError(t, err)
		require.True(t, ok)
	}

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	march, err := repo.List(ctx, u.ID, &from, &to)
	require.NoError(t, err)
	all, err := repo.List(ctx, u.ID, nil, nil)
	require.NoError(t, err)

	require.Len(t, march, 2)
	assert.Equal(t, 15, march[0].StartTime.Day())
	assert.Equal(t, 1, march[1].StartTime.Day())
	assert.Len(t, all, 3)
}
