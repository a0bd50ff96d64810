package timesheet

import (
	"context"

	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
)

type TimesheetService interface {
	// Export renders the timesheet of the signed-in user and hands it to d.
	Export(ctx context.Context, req ExportRequest, d ferrarini.Downloader) (ExportSummary, error)
	Holidays(ctx context.Context, req HolidaysRequest) (HolidaysResponse, error)
}
