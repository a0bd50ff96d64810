package shift

import (
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

type StartShiftRequest struct {
	Project *string `json:"project"`
}

func (r *StartShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Project != nil && len(*r.Project) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListShiftsFilter bounds the listing by start date, both ends inclusive.
type ListShiftsFilter struct {
	StartDate string
	EndDate   string
}

func (f *ListShiftsFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != "" {
		if start, startOK = validator.IsValidDate(f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if end, endOK = validator.IsValidDate(f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range converts the filter to a half-open UTC interval. Nil means unbounded.
func (f *ListShiftsFilter) Range() (from, to *time.Time) {
	if start, ok := validator.IsValidDate(f.StartDate); ok {
		from = &start
	}
	if end, ok := validator.IsValidDate(f.EndDate); ok {
		next := end.AddDate(0, 0, 1)
		to = &next
	}
	return from, to
}

type ShiftResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Duration  *string `json:"duration"`
	Project   *string `json:"project"`
	Active    bool    `json:"active"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		StartTime: s.StartTime.UTC().Format(time.RFC3339Nano),
		Project:   s.Project,
		Active:    s.IsActive(),
	}
	if s.EndTime != nil {
		end := s.EndTime.UTC().Format(time.RFC3339Nano)
		resp.EndTime = &end
	}
	if s.Duration != nil {
		d := s.Duration.StringFixed(2)
		resp.Duration = &d
	}
	return resp
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
