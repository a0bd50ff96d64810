package expense

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

type CreateExpenseRequest struct {
	Date            string          `json:"date"`
	Destination     string          `json:"destination"`
	Km              decimal.Decimal `json:"km"`
	KmCost          decimal.Decimal `json:"km_cost"`
	Toll            decimal.Decimal `json:"toll"`
	Parking         decimal.Decimal `json:"parking"`
	PublicTransport decimal.Decimal `json:"public_transport"`
	Food            decimal.Decimal `json:"food"`
	Accommodation   decimal.Decimal `json:"accommodation"`
	Other           decimal.Decimal `json:"other"`
	Notes           *string         `json:"notes"`
}

func (r *CreateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if len(r.Destination) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "destination",
			Message: "destination must not exceed 255 characters",
		})
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"km", r.Km},
		{"km_cost", r.KmCost},
		{"toll", r.Toll},
		{"parking", r.Parking},
		{"public_transport", r.PublicTransport},
		{"food", r.Food},
		{"accommodation", r.Accommodation},
		{"other", r.Other},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   a.field,
				Message: a.field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToExpense builds the entity for userID. Call Validate first.
func (r *CreateExpenseRequest) ToExpense(userID string) Expense {
	date, _ := validator.IsValidDate(r.Date)
	return Expense{
		UserID:          userID,
		Date:            date,
		Destination:     r.Destination,
		Km:              r.Km,
		KmCost:          r.KmCost,
		Toll:            r.Toll,
		Parking:         r.Parking,
		PublicTransport: r.PublicTransport,
		Food:            r.Food,
		Accommodation:   r.Accommodation,
		Other:           r.Other,
		Notes:           r.Notes,
	}
}

// ListExpensesFilter selects one month, or the whole year when Month is 0.
type ListExpensesFilter struct {
	Month int
	Year  int
}

func (f *ListExpensesFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year < 1970 || f.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}
	if f.Month < 0 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12, or 0 for the whole year",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range returns the [from, to) calendar-day interval of the filter.
func (f *ListExpensesFilter) Range() (from, to time.Time) {
	if f.Month == 0 {
		from = time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

type ExpenseResponse struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Destination     string          `json:"destination"`
	Km              decimal.Decimal `json:"km"`
	KmCost          decimal.Decimal `json:"km_cost"`
	Toll            decimal.Decimal `json:"toll"`
	Parking         decimal.Decimal `json:"parking"`
	PublicTransport decimal.Decimal `json:"public_transport"`
	Food            decimal.Decimal `json:"food"`
	Accommodation   decimal.Decimal `json:"accommodation"`
	Other           decimal.Decimal `json:"other"`
	Total           decimal.Decimal `json:"total"`
	Notes           *string         `json:"notes"`
}

func NewExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		Date:            e.Date.Format("2006-01-02"),
		Destination:     e.Destination,
		Km:              e.Km,
		KmCost:          e.KmCost,
		Toll:            e.Toll,
		Parking:         e.Parking,
		PublicTransport: e.PublicTransport,
		Food:            e.Food,
		Accommodation:   e.Accommodation,
		Other:           e.Other,
		Total:           e.Total(),
		Notes:           e.Notes,
	}
}
