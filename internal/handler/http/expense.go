package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/response"
)

type ExpenseHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ExpenseHandlerImpl struct {
	expenseService expense.ExpenseService
	now            func() time.Time
}

func NewExpenseHandler(expenseService expense.ExpenseService) ExpenseHandler {
	return &ExpenseHandlerImpl{expenseService: expenseService, now: time.Now}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// Create implements ExpenseHandler.
func (h *ExpenseHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req expense.CreateExpenseRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create expense decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.expenseService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create expense service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense created successfully", created)
}

// List implements ExpenseHandler. Without parameters it lists the current month.
func (h *ExpenseHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	filter := expense.ListExpensesFilter{
		Year:  getIntQueryParam(r, "year", now.Year()),
		Month: getIntQueryParam(r, "month", int(now.Month())),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	expenses, err := h.expenseService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List expenses service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, expenses)
}

// Delete implements ExpenseHandler.
func (h *ExpenseHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.expenseService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete expense service error", "error", err, "expense_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Expense deleted successfully", nil)
}
