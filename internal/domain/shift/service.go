package shift

import (
	"context"

	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/sse"
)

type ShiftService interface {
	Start(ctx context.Context, req StartShiftRequest) (ShiftResponse, error)
	Stop(ctx context.Context, id string) (ShiftResponse, error)
	// StopActive stops whichever shift is running
	StopActive(ctx context.Context) (ShiftResponse, error)
	GetActive(ctx context.Context) (ShiftResponse, error)
	List(ctx context.Context, filter ListShiftsFilter) ([]ShiftResponse, error)
	// Subscribe streams shift change events of userID
	Subscribe(ctx context.Context, userID string) (<-chan sse.Event, func())
}
