package expense

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
)

type fakeExpenseRepo struct {
	expenses []expense.Expense
}

func (r *fakeExpenseRepo) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.expenses = append(r.expenses, e)
	return e, nil
}

func (r *fakeExpenseRepo) List(ctx context.Context, userID string, from, to time.Time) ([]expense.Expense, error) {
	var out []expense.Expense
	for _, e := range r.expenses {
		if e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id string, userID string) error {
	for i, e := range r.expenses {
		if e.ID == id && e.UserID == userID {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return expense.ErrExpenseNotFound
}

func authContext(t *testing.T, userID string) context.Context {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h", false)
	access, _, err := svc.GenerateAccessToken(userID, userID+"@example.com")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), access)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// Test Create then List by month
func TestExpenseService_CreateAndList(t *testing.T) {
	// Setup
	repo := &fakeExpenseRepo{}
	svc := NewExpenseService(repo)
	ctx := authContext(t, "user-1")

	// Act
	created, err := svc.Create(ctx, expense.CreateExpenseRequest{
		Date:        "2024-03-12",
		Destination: "Modena",
		KmCost:      decimal.RequireFromString("12.40"),
		Food:        decimal.RequireFromString("18"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, expense.CreateExpenseRequest{Date: "2024-04-01"})
	require.NoError(t, err)

	march, err := svc.List(ctx, expense.ListExpensesFilter{Month: 3, Year: 2024})
	require.NoError(t, err)
	year, err := svc.List(ctx, expense.ListExpensesFilter{Year: 2024})
	require.NoError(t, err)

	// Assert
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "30.4", created.Total.String())
	require.Len(t, march, 1)
	assert.Equal(t, "2024-03-12", march[0].Date)
	assert.Len(t, year, 2)
}

func TestExpenseService_Delete(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc := NewExpenseService(repo)
	created, err := svc.Create(authContext(t, "user-1"), expense.CreateExpenseRequest{Date: "2024-03-12"})
	require.NoError(t, err)

	err = svc.Delete(authContext(t, "user-2"), created.ID)
	assert.ErrorIs(t, err, expense.ErrExpenseNotFound)

	err = svc.Delete(authContext(t, "user-1"), created.ID)
	assert.NoError(t, err)
	assert.Empty(t, repo.expenses)
}

func TestExpenseService_Delete_MalformedID(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{})

	err := svc.Delete(authContext(t, "user-1"), "42")

	assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
}
