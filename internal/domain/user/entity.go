package user

import "time"

const ProviderGoogle = "google"

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	OAuthProvider   *string
	OAuthProviderID *string
	EmailVerified   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the user can sign in with email and password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsLinkedToGoogle checks if the account was created or linked through Google
func (u *User) IsLinkedToGoogle() bool {
	return u.OAuthProvider != nil && *u.OAuthProvider == ProviderGoogle && u.OAuthProviderID != nil
}
