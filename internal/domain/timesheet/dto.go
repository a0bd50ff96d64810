package timesheet

import (
	"net/url"
	"strconv"
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

// ExportRequest selects the period and format of an export. Month 0 is
// the whole year.
type ExportRequest struct {
	Year   int
	Month  int
	Format string
}

// ParseExportRequest reads year, month and format from a query string.
// Malformed numbers are reported by Validate.
func ParseExportRequest(q url.Values) (ExportRequest, error) {
	var errs validator.ValidationErrors
	req := ExportRequest{Format: q.Get("format")}

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a number",
		})
	}
	req.Year = year

	if raw := q.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be a number",
			})
		}
		req.Month = month
	}

	if len(errs) > 0 {
		return req, errs
	}
	return req, nil
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < ferrarini.MinYear || r.Year > ferrarini.MaxYear {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a 4-digit calendar year",
		})
	}
	if r.Month < 0 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	format, err := ferrarini.ParseFormat(r.Format)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of xlsx, csv, pdf",
		})
	} else if format == ferrarini.FormatCSV && r.Month == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required for csv exports",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Period returns the [from, to) UTC bounds of the requested shifts.
func (r *ExportRequest) Period() (from, to time.Time) {
	if r.Month == 0 {
		from = time.Date(r.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from = time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// ExportSummary describes a delivered export.
type ExportSummary struct {
	Filename string
	Shifts   int
	Expenses int
	Warnings int
}

type HolidaysRequest struct {
	Year  int
	Month int
}

func (r *HolidaysRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < ferrarini.MinYear || r.Year > ferrarini.MaxYear {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a 4-digit calendar year",
		})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayDay struct {
	Day  int    `json:"day"`
	Date string `json:"date"`
	// Name is empty for plain weekend days
	Name string `json:"name,omitempty"`
}

type HolidaysResponse struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Days  []HolidayDay `json:"days"`
}
