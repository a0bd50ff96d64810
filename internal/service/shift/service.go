package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/sse"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

// Subscriber is the receiving half of sse.Hub.
type Subscriber interface {
	Subscribe(userID string) (<-chan sse.Event, func())
}

type ShiftServiceImpl struct {
	shift.ShiftRepository
	events interface {
		sse.Publisher
		Subscriber
	}
	now func() time.Time
}

func NewShiftService(shiftRepository shift.ShiftRepository, hub *sse.Hub) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepository,
		events:          hub,
		now:             time.Now,
	}
}

// Start implements shift.ShiftService.
func (s *ShiftServiceImpl) Start(ctx context.Context, req shift.StartShiftRequest) (shift.ShiftResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	_, err = s.ShiftRepository.GetActive(ctx, userID)
	if err == nil {
		return shift.ShiftResponse{}, shift.ErrShiftInProgress
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check active shift: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to generate shift id: %w", err)
	}

	var project *string
	if req.Project != nil && *req.Project != "" {
		project = req.Project
	}

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		ID:        id.String(),
		UserID:    userID,
		StartTime: s.now().UTC(),
		Project:   project,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		// shifts_one_active_per_user lost a concurrent start
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.ShiftResponse{}, shift.ErrShiftInProgress
		}
		return shift.ShiftResponse{}, err
	}

	resp := shift.NewShiftResponse(created)
	s.events.Publish(userID, sse.Event{Event: shift.EventShiftStarted, Data: resp})
	return resp, nil
}

// Stop implements shift.ShiftService.
func (s *ShiftServiceImpl) Stop(ctx context.Context, id string) (shift.ShiftResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return shift.ShiftResponse{}, shift.ErrShiftNotFound
	}

	current, err := s.ShiftRepository.GetByID(ctx, id, userID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return s.stop(ctx, current)
}

// StopActive implements shift.ShiftService.
func (s *ShiftServiceImpl) StopActive(ctx context.Context) (shift.ShiftResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	current, err := s.ShiftRepository.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrNoActiveShift
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}
	return s.stop(ctx, current)
}

func (s *ShiftServiceImpl) stop(ctx context.Context, current shift.Shift) (shift.ShiftResponse, error) {
	if !current.IsActive() {
		return shift.ShiftResponse{}, shift.ErrShiftAlreadyStopped
	}

	end := s.now().UTC()
	// clock skew between app servers must not yield a negative duration
	if end.Before(current.StartTime) {
		end = current.StartTime
	}
	duration := shift.DurationMinutes(current.StartTime, end)
	current.EndTime = &end
	current.Duration = &duration

	stopped, ok, err := s.ShiftRepository.Stop(ctx, current)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !ok {
		return shift.ShiftResponse{}, shift.ErrShiftAlreadyStopped
	}

	resp := shift.NewShiftResponse(stopped)
	s.events.Publish(current.UserID, sse.Event{Event: shift.EventShiftStopped, Data: resp})
	return resp, nil
}

// GetActive implements shift.ShiftService.
func (s *ShiftServiceImpl) GetActive(ctx context.Context) (shift.ShiftResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	current, err := s.ShiftRepository.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrNoActiveShift
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	return shift.NewShiftResponse(current), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context, filter shift.ListShiftsFilter) ([]shift.ShiftResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	from, to := filter.Range()
	shifts, err := s.ShiftRepository.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.NewShiftResponse(sh))
	}
	return responses, nil
}

// Subscribe implements shift.ShiftService.
func (s *ShiftServiceImpl) Subscribe(ctx context.Context, userID string) (<-chan sse.Event, func()) {
	return s.events.Subscribe(userID)
}
