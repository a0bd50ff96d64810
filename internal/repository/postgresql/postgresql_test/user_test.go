package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/user"
	"github.com/timeyeet/timeyeet-backend-go/internal/repository/postgresql"
)

func TestUserRepository_Create_Success(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()

	created := createTestUser(t, ctx, "mario@example.com")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "mario@example.com", created.Email)
	assert.True(t, created.HasPassword())
	assert.False(t, created.IsLinkedToGoogle())
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	setupTestData(t)

	_, err := postgresql.NewUserRepository(testDB).GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserRepository_LinkGoogleAccount_Success(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	created := createTestUser(t, ctx, "mario@example.com")
	repo := postgresql.NewUserRepository(testDB)

	linked, err := repo.LinkGoogleAccount(ctx, "google-123", "mario@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, linked.ID)
	assert.True(t, linked.IsLinkedToGoogle())
	assert.True(t, linked.EmailVerified)
	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "google-123", *found.OAuthProviderID)
}

func TestProfileRepository_UpdateAndGet(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	created := createTestUser(t, ctx, "mario@example.com")
	repo := postgresql.NewProfileRepository(testDB)

	p, err := repo.GetByUserID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mario@example.com", p.Email)
	assert.Equal(t, "Mario Rossi", p.DisplayName())

	p.Department = strPtr("Sales")
	p.FirstName = strPtr("Luigi")
	updated, err := repo.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Luigi Rossi", updated.DisplayName())
	assert.Equal(t, "Sales", *updated.Department)

	_, err = repo.GetByUserID(ctx, "018f0000-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(testDB)
	boom := errors.New("boom")

	err := postgresql.NewTransactor(testDB).WithinTransaction(ctx, func(txCtx context.Context) error {
		hash := "x"
		if _, err := users.Create(txCtx, user.User{ID: "018f0000-0000-7000-8000-000000000001", Email: "tx@example.com", PasswordHash: &hash}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = users.GetByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
