package auth

import "github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"

const emailFormatMessage = "email must be a valid email address, e.g. user@example.com"

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateEmail(r.Email)...)
	errs = append(errs, validatePassword(r.Password)...)

	if validator.IsEmpty(r.ConfirmPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "confirm_password is required",
		})
	} else if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "password and confirm_password do not match",
		})
	}

	if len(r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not exceed 100 characters",
		})
	}
	if len(r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateEmail(r.Email)...)
	errs = append(errs, validatePassword(r.Password)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}
	if len(r.RefreshToken) > 1024 {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token must not exceed 1024 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GoogleLoginRequest carries the identity returned by Google's userinfo endpoint.
type GoogleLoginRequest struct {
	GoogleID  string
	Email     string
	FirstName string
	LastName  string
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

func validateEmail(email string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch {
	case validator.IsEmpty(email):
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	case len(email) > 254:
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must not exceed 254 characters"})
	case !validator.IsValidEmail(email):
		errs = append(errs, validator.ValidationError{Field: "email", Message: emailFormatMessage})
	}
	return errs
}

func validatePassword(password string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	switch {
	case validator.IsEmpty(password):
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	case len(password) < 8:
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	case len(password) > 72:
		// bcrypt ignores anything past 72 bytes
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	return errs
}
