package http

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/timesheet"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/response"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

// exportWarningsHeader carries the number of records skipped or flagged
// while building the export.
const exportWarningsHeader = "X-Export-Warnings"

type TimesheetHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	Holidays(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// Export streams the timesheet of the authenticated user as an attachment.
func (h *TimesheetHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req, err := timesheet.ParseExportRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var (
		filename    string
		contentType string
		body        []byte
	)
	summary, err := h.timesheetService.Export(r.Context(), req, ferrarini.DownloaderFunc(func(name, ct string, b []byte) error {
		filename, contentType, body = name, ct, b
		return nil
	}))
	if err != nil {
		slog.Error("Export timesheet service error", "error", err, "year", req.Year, "month", req.Month, "format", req.Format)
		response.HandleError(w, err)
		return
	}

	slog.Info("Timesheet exported",
		"filename", summary.Filename,
		"shifts", summary.Shifts,
		"expenses", summary.Expenses,
		"warnings", summary.Warnings,
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set(exportWarningsHeader, strconv.Itoa(summary.Warnings))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("Export timesheet write error", "error", err)
	}
}

// Holidays lists the weekend days and national holidays of a month.
func (h *TimesheetHandlerImpl) Holidays(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	req := timesheet.HolidaysRequest{}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	req.Year, req.Month = year, month
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	days, err := h.timesheetService.Holidays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, days)
}
