package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/timesheet"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type TimesheetServiceImpl struct {
	profiles profile.ProfileService
	shifts   shift.ShiftRepository
	expenses expense.ExpenseRepository
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewTimesheetService builds the export service. loc is the zone expense
// dates are read in.
func NewTimesheetService(profileService profile.ProfileService, shiftRepository shift.ShiftRepository, expenseRepository expense.ExpenseRepository, loc *time.Location, logger *slog.Logger) timesheet.TimesheetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimesheetServiceImpl{
		profiles: profileService,
		shifts:   shiftRepository,
		expenses: expenseRepository,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Export implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Export(ctx context.Context, req timesheet.ExportRequest, d ferrarini.Downloader) (timesheet.ExportSummary, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return timesheet.ExportSummary{}, err
	}

	format, err := ferrarini.ParseFormat(req.Format)
	if err != nil {
		return timesheet.ExportSummary{}, err
	}

	name, err := s.profiles.DisplayName(ctx, userID)
	if err != nil {
		return timesheet.ExportSummary{}, fmt.Errorf("failed to resolve employee name: %w", err)
	}

	from, to := req.Period()
	var (
		shifts   []shift.Shift
		expenses []expense.Expense
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.shifts.List(gCtx, userID, &from, &to)
		if err != nil {
			return fmt.Errorf("failed to fetch shifts: %w", err)
		}
		shifts = data
		return nil
	})
	g.Go(func() error {
		data, err := s.expenses.List(gCtx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to fetch expenses: %w", err)
		}
		expenses = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return timesheet.ExportSummary{}, err
	}

	exportReq := ferrarini.Request{
		Year:         req.Year,
		Month:        req.Month,
		EmployeeName: name,
		Shifts:       toExportShifts(shifts),
		Expenses:     toExportExpenses(expenses),
		Format:       format,
	}

	collector := &ferrarini.Collector{
		Next: ferrarini.SlogReporter{Logger: s.logger.With("user_id", userID)},
	}
	exporter := &ferrarini.Exporter{Reporter: collector, Location: s.location, Now: s.now}

	summary := timesheet.ExportSummary{
		Shifts:   len(exportReq.Shifts),
		Expenses: len(exportReq.Expenses),
	}
	deliver := ferrarini.DownloaderFunc(func(filename, contentType string, body []byte) error {
		summary.Filename = filename
		summary.Warnings = len(collector.Issues())
		return d.Download(filename, contentType, body)
	})

	if err := exporter.Export(exportReq, deliver); err != nil {
		return timesheet.ExportSummary{}, err
	}

	return summary, nil
}

// Holidays implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Holidays(ctx context.Context, req timesheet.HolidaysRequest) (timesheet.HolidaysResponse, error) {
	resp := timesheet.HolidaysResponse{Year: req.Year, Month: req.Month, Days: []timesheet.HolidayDay{}}
	for _, day := range ferrarini.ComputeHolidays(req.Month, req.Year) {
		resp.Days = append(resp.Days, timesheet.HolidayDay{
			Day:  day,
			Date: time.Date(req.Year, time.Month(req.Month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Name: ferrarini.HolidayName(req.Month, day, req.Year),
		})
	}
	return resp, nil
}

// toExportShifts keeps finished shifts only; a running shift has no hours yet.
func toExportShifts(shifts []shift.Shift) []ferrarini.Shift {
	out := make([]ferrarini.Shift, 0, len(shifts))
	for _, sh := range shifts {
		if sh.IsActive() {
			continue
		}
		es := ferrarini.Shift{
			ID:        sh.ID,
			StartTime: sh.StartTime.UTC().Format(time.RFC3339Nano),
			EndTime:   sh.EndTime.UTC().Format(time.RFC3339Nano),
		}
		if sh.Project != nil {
			es.Project = *sh.Project
		}
		out = append(out, es)
	}
	// oldest first so project rows appear in the order work started
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func toExportExpenses(expenses []expense.Expense) []ferrarini.Expense {
	out := make([]ferrarini.Expense, 0, len(expenses))
	for _, e := range expenses {
		ee := ferrarini.Expense{
			Date:            e.Date.Format("2006-01-02"),
			Destination:     e.Destination,
			Km:              e.Km.InexactFloat64(),
			KmCost:          e.KmCost.InexactFloat64(),
			Toll:            e.Toll.InexactFloat64(),
			Parking:         e.Parking.InexactFloat64(),
			PublicTransport: e.PublicTransport.InexactFloat64(),
			Food:            e.Food.InexactFloat64(),
			Accommodation:   e.Accommodation.InexactFloat64(),
			Other:           e.Other.InexactFloat64(),
		}
		if e.Notes != nil {
			ee.Notes = *e.Notes
		}
		out = append(out, ee)
	}
	return out
}
