package shift

import "errors"

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftInProgress     = errors.New("a shift is already in progress")
	ErrShiftAlreadyStopped = errors.New("shift has already been stopped")
	ErrNoActiveShift       = errors.New("no shift in progress")
)
