package expense

import "context"

type ExpenseService interface {
	Create(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	List(ctx context.Context, filter ListExpensesFilter) ([]ExpenseResponse, error)
	Delete(ctx context.Context, id string) error
}
