package shift

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "90.00", DurationMinutes(start, start.Add(90*time.Minute)).StringFixed(2))
	assert.Equal(t, "0.51", DurationMinutes(start, start.Add(30500*time.Millisecond)).StringFixed(2))
	assert.True(t, DurationMinutes(start, start).Equal(decimal.Zero))
}

func TestListShiftsFilter(t *testing.T) {
	f := ListShiftsFilter{StartDate: "2024-03-01", EndDate: "2024-03-31"}
	assert.NoError(t, f.Validate())

	from, to := f.Range()
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *to)

	reversed := ListShiftsFilter{StartDate: "2024-03-31", EndDate: "2024-03-01"}
	assert.Error(t, reversed.Validate())

	malformed := ListShiftsFilter{StartDate: "March"}
	assert.Error(t, malformed.Validate())

	var empty ListShiftsFilter
	from, to = empty.Range()
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestNewShiftResponse(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	d := DurationMinutes(start, end)
	project := "Alpha"

	running := NewShiftResponse(Shift{ID: "s1", StartTime: start})
	stopped := NewShiftResponse(Shift{ID: "s1", StartTime: start, EndTime: &end, Duration: &d, Project: &project})

	assert.True(t, running.Active)
	assert.Nil(t, running.EndTime)
	assert.False(t, stopped.Active)
	assert.Equal(t, "2024-03-01T10:00:00Z", *stopped.EndTime)
	assert.Equal(t, "120.00", *stopped.Duration)
}
