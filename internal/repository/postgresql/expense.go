package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/database"
)

type expenseRepositoryImpl struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepositoryImpl{db: db}
}

const expenseColumns = `id, user_id, date, destination, km, km_cost, toll, parking,
	public_transport, food, accommodation, other, notes, created_at, updated_at`

func scanExpense(row pgx.Row) (expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Date, &e.Destination,
		&e.Km, &e.KmCost, &e.Toll, &e.Parking,
		&e.PublicTransport, &e.Food, &e.Accommodation, &e.Other,
		&e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements expense.ExpenseRepository.
func (r *expenseRepositoryImpl) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (
			id, user_id, date, destination, km, km_cost, toll, parking,
			public_transport, food, accommodation, other, notes
		)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric,
			$9::numeric, $10::numeric, $11::numeric, $12::numeric, $13)
		RETURNING ` + expenseColumns

	created, err := scanExpense(q.QueryRow(ctx, query,
		e.ID, e.UserID, e.Date, e.Destination,
		e.Km, e.KmCost, e.Toll, e.Parking,
		e.PublicTransport, e.Food, e.Accommodation, e.Other,
		e.Notes,
	))
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

// List implements expense.ExpenseRepository.
func (r *expenseRepositoryImpl) List(ctx context.Context, userID string, from, to time.Time) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// Delete implements expense.ExpenseRepository.
func (r *expenseRepositoryImpl) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound
	}

	return nil
}
