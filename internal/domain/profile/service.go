package profile

import "context"

type ProfileService interface {
	// GetMyProfile returns the profile of the authenticated user
	GetMyProfile(ctx context.Context) (ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
	// DisplayName resolves the name printed on exported timesheets
	DisplayName(ctx context.Context, userID string) (string, error)
}
