package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/response"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
)

const streamKeepalive = 30 * time.Second

type ShiftHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Stop(w http.ResponseWriter, r *http.Request)
	StopActive(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	shiftService shift.ShiftService
	jwtService   jwt.Service
}

func NewShiftHandler(shiftService shift.ShiftService, jwtService jwt.Service) ShiftHandler {
	return &ShiftHandlerImpl{
		shiftService: shiftService,
		jwtService:   jwtService,
	}
}

// Start implements ShiftHandler. The body is optional.
func (h *ShiftHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req shift.StartShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Start shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	started, err := h.shiftService.Start(r.Context(), req)
	if err != nil {
		slog.Error("Start shift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift started", started)
}

// Stop implements ShiftHandler.
func (h *ShiftHandlerImpl) Stop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stopped, err := h.shiftService.Stop(r.Context(), id)
	if err != nil {
		slog.Error("Stop shift service error", "error", err, "shift_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift stopped", stopped)
}

// StopActive implements ShiftHandler.
func (h *ShiftHandlerImpl) StopActive(w http.ResponseWriter, r *http.Request) {
	stopped, err := h.shiftService.StopActive(r.Context())
	if err != nil {
		slog.Error("Stop active shift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift stopped", stopped)
}

// Active implements ShiftHandler.
func (h *ShiftHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	active, err := h.shiftService.GetActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, active)
}

// List implements ShiftHandler.
func (h *ShiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := shift.ListShiftsFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	shifts, err := h.shiftService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List shifts service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// StreamToken generates a short-lived token for the shift event stream
func (h *ShiftHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	userID, err := jwt.UserIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		slog.Error("Generate stream token error", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, shift.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection carrying shift changes of one user
func (h *ShiftHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot set headers, so the token comes in the query string
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.shiftService.Subscribe(r.Context(), userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Stream encode error", "error", err, "event", event.Event)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
