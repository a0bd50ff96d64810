package expense

import (
	"context"
	"time"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	// List returns the expenses of userID dated in [from, to), oldest first.
	List(ctx context.Context, userID string, from, to time.Time) ([]Expense, error)
	Delete(ctx context.Context, id string, userID string) error
}
