package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

type ExpenseServiceImpl struct {
	expense.ExpenseRepository
}

func NewExpenseService(expenseRepository expense.ExpenseRepository) expense.ExpenseService {
	return &ExpenseServiceImpl{ExpenseRepository: expenseRepository}
}

// Create implements expense.ExpenseService.
func (s *ExpenseServiceImpl) Create(ctx context.Context, req expense.CreateExpenseRequest) (expense.ExpenseResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return expense.ExpenseResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return expense.ExpenseResponse{}, fmt.Errorf("failed to generate expense id: %w", err)
	}

	newExpense := req.ToExpense(userID)
	newExpense.ID = id.String()

	created, err := s.ExpenseRepository.Create(ctx, newExpense)
	if err != nil {
		return expense.ExpenseResponse{}, err
	}

	return expense.NewExpenseResponse(created), nil
}

// List implements expense.ExpenseService.
func (s *ExpenseServiceImpl) List(ctx context.Context, filter expense.ListExpensesFilter) ([]expense.ExpenseResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	from, to := filter.Range()
	expenses, err := s.ExpenseRepository.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]expense.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, expense.NewExpenseResponse(e))
	}
	return responses, nil
}

// Delete implements expense.ExpenseService.
func (s *ExpenseServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return expense.ErrExpenseNotFound
	}
	return s.ExpenseRepository.Delete(ctx, id, userID)
}
