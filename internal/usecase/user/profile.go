package user

import (
	"context"
	"errors"
	domainUser "estate-brokerage/internal/domain/user"
	appErrors "estate-brokerage/pkg/errors"
	"estate-brokerage/pkg/utils"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// DefaultProfilePicture is served when the requested picture is missing.
const DefaultProfilePicture = "default-profile.png"

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return ToUserResponse(user), nil
}

func (s *Service) ListUsers(ctx context.Context) (*UserListResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToUserResponse(user))
	}

	return &UserListResponse{Users: responses}, nil
}

// OpenProfilePicture returns the stored picture or the default one. Names that
// are not plain file names are rejected.
func (s *Service) OpenProfilePicture(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if !utils.IsPlainFileName(name) {
		return nil, "", appErrors.ErrImageNotFound
	}

	body, contentType, err := s.images.Open(ctx, name)
	if err == nil {
		return body, contentType, nil
	}
	if !errors.Is(err, appErrors.ErrImageNotFound) {
		return nil, "", fmt.Errorf("failed to open profile picture: %w", err)
	}

	body, contentType, err = s.images.Open(ctx, DefaultProfilePicture)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open default profile picture: %w", err)
	}

	return body, contentType, nil
}
