package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/response"
)

type ProfileHandler interface {
	GetMyProfile(w http.ResponseWriter, r *http.Request)
	UpdateMyProfile(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &ProfileHandlerImpl{profileService: profileService}
}

// GetMyProfile implements ProfileHandler.
func (h *ProfileHandlerImpl) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileService.GetMyProfile(r.Context())
	if err != nil {
		slog.Error("GetMyProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// UpdateMyProfile implements ProfileHandler.
func (h *ProfileHandlerImpl) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req profile.UpdateProfileRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateMyProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		slog.Error("UpdateMyProfile validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	updated, err := h.profileService.UpdateMyProfile(r.Context(), req)
	if err != nil {
		slog.Error("UpdateMyProfile service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", updated)
}
