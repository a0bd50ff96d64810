package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/user"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
)

type ProfileServiceImpl struct {
	profile.ProfileRepository
	users user.UserRepository
}

func NewProfileService(profileRepository profile.ProfileRepository, userRepository user.UserRepository) profile.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: profileRepository,
		users:             userRepository,
	}
}

// GetMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context) (profile.ProfileResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.NewProfileResponse(p), nil
}

// UpdateMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, req profile.UpdateProfileRequest) (profile.ProfileResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	req.Apply(&p)

	updated, err := s.ProfileRepository.Update(ctx, p)
	if err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile.NewProfileResponse(updated), nil
}

// DisplayName implements profile.ProfileService. Users without a profile
// row fall back to their email address.
func (s *ProfileServiceImpl) DisplayName(ctx context.Context, userID string) (string, error) {
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err == nil {
		return p.DisplayName(), nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	return u.Email, nil
}
