package profile

import "context"

type ProfileRepository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
}
