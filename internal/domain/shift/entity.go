package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// SSE event names published on shift changes
const (
	EventShiftStarted = "shift.started"
	EventShiftStopped = "shift.stopped"
)

// Shift is one worked interval. EndTime is nil while the shift is running.
type Shift struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   *time.Time
	// Duration is stored in minutes with two decimals
	Duration  *decimal.Decimal
	Project   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Shift) IsActive() bool {
	return s.EndTime == nil
}

// DurationMinutes returns end minus start in minutes, rounded to two decimals.
func DurationMinutes(start, end time.Time) decimal.Decimal {
	return decimal.NewFromInt(end.Sub(start).Milliseconds()).
		Div(decimal.NewFromInt(60000)).
		Round(2)
}
