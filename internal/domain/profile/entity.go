package profile

import (
	"strings"
	"time"
)

const DefaultLanguage = "it"

// Profile is the personal data attached to a user. ID equals the user ID.
type Profile struct {
	ID         string
	Email      string
	FirstName  *string
	LastName   *string
	Phone      *string
	BirthDate  *time.Time
	Language   string
	Department *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName is "first last" trimmed, or the email when both are blank.
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(deref(p.FirstName) + " " + deref(p.LastName))
	if name == "" {
		return p.Email
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
