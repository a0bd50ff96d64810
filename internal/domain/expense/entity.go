package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one reimbursable trip. Date is a calendar day without zone.
type Expense struct {
	ID              string
	UserID          string
	Date            time.Time
	Destination     string
	Km              decimal.Decimal
	KmCost          decimal.Decimal
	Toll            decimal.Decimal
	Parking         decimal.Decimal
	PublicTransport decimal.Decimal
	Food            decimal.Decimal
	Accommodation   decimal.Decimal
	Other           decimal.Decimal
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Total sums the cost columns. Km is a distance and is not part of it.
func (e *Expense) Total() decimal.Decimal {
	return decimal.Sum(e.KmCost, e.Toll, e.Parking, e.PublicTransport, e.Food, e.Accommodation, e.Other)
}
