package response

import (
	"errors"
	"net/http"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/auth"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/expense"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/shift"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/ferrarini"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingUserID):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound), errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, "Google sign-in is not configured")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrNoActiveShift):
		NotFound(w, "No shift in progress")
	case errors.Is(err, shift.ErrShiftInProgress):
		Conflict(w, "A shift is already in progress")
	case errors.Is(err, shift.ErrShiftAlreadyStopped):
		Conflict(w, "Shift has already been stopped")

	// Expense domain errors
	case errors.Is(err, expense.ErrExpenseNotFound):
		NotFound(w, "Expense not found")

	// Timesheet export errors
	case errors.Is(err, ferrarini.ErrInvalidParameter):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
