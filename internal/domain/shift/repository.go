package shift

import (
	"context"
	"time"
)

// ShiftRepository scopes every query to the owning user.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string, userID string) (Shift, error)
	// GetActive returns the running shift of userID, or pgx.ErrNoRows.
	GetActive(ctx context.Context, userID string) (Shift, error)
	// Stop sets the end of a running shift. It reports false when the
	// shift was already stopped.
	Stop(ctx context.Context, s Shift) (Shift, bool, error)
	// List returns shifts whose start falls in [from, to), newest first.
	List(ctx context.Context, userID string, from, to *time.Time) ([]Shift, error)
}
