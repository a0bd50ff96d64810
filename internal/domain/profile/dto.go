package profile

import (
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/validator"
)

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Language   *string `json:"language"`
	Department *string `json:"department"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && len(*r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name must not exceed 100 characters",
		})
	}
	if r.LastName != nil && len(*r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name must not exceed 100 characters",
		})
	}
	if r.Phone != nil && !validator.IsEmpty(*r.Phone) && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain 6 to 15 digits, optionally starting with +",
		})
	}
	if r.BirthDate != nil && !validator.IsEmpty(*r.BirthDate) {
		date, ok := validator.IsValidDate(*r.BirthDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "birth_date",
				Message: "birth_date must be in YYYY-MM-DD format",
			})
		} else if date.After(time.Now()) {
			errs = append(errs, validator.ValidationError{
				Field:   "birth_date",
				Message: "birth_date must not be in the future",
			})
		}
	}
	if r.Language != nil && !validator.IsValidLanguage(*r.Language) {
		errs = append(errs, validator.ValidationError{
			Field:   "language",
			Message: "language must be a two-letter lowercase code, e.g. it",
		})
	}
	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply copies the fields present in r onto p. Blank strings clear optional fields.
func (r *UpdateProfileRequest) Apply(p *Profile) {
	if r.FirstName != nil {
		p.FirstName = optional(*r.FirstName)
	}
	if r.LastName != nil {
		p.LastName = optional(*r.LastName)
	}
	if r.Phone != nil {
		p.Phone = optional(*r.Phone)
	}
	if r.BirthDate != nil {
		if date, ok := validator.IsValidDate(*r.BirthDate); ok {
			p.BirthDate = &date
		} else {
			p.BirthDate = nil
		}
	}
	if r.Language != nil {
		p.Language = *r.Language
	}
	if r.Department != nil {
		p.Department = optional(*r.Department)
	}
}

type ProfileResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	BirthDate   *string `json:"birth_date"`
	Language    string  `json:"language"`
	Department  *string `json:"department"`
	DisplayName string  `json:"display_name"`
	UpdatedAt   string  `json:"updated_at"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	var birthDate *string
	if p.BirthDate != nil {
		s := p.BirthDate.Format("2006-01-02")
		birthDate = &s
	}
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		BirthDate:   birthDate,
		Language:    p.Language,
		Department:  p.Department,
		DisplayName: p.DisplayName(),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func optional(s string) *string {
	if validator.IsEmpty(s) {
		return nil
	}
	return &s
}
