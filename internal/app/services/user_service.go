package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
)

// UserService defines the interface for user management operations
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, page, size int) ([]*models.User, int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	TouchStudyDate(ctx context.Context, userID int64) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo UserStore
}

// NewUserService creates a new user service instance
func NewUserService(userRepo UserStore) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// ListUsers returns a page of user accounts
func (s *userServiceImpl) ListUsers(ctx context.Context, page, size int) ([]*models.User, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := s.userRepo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	return users, total, nil
}

// SetActive enables or disables an account. Disabled accounts cannot log in
// or refresh tokens.
func (s *userServiceImpl) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating user active flag: %w", err)
	}
	return nil
}

// UpdateRole changes a user's role; roles are otherwise immutable
func (s *userServiceImpl) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, role)
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating user role: %w", err)
	}
	return nil
}

// TouchStudyDate records study activity for streak tracking
func (s *userServiceImpl) TouchStudyDate(ctx context.Context, userID int64) error {
	if err := s.userRepo.UpdateLastStudyDate(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error updating study date: %w", err)
	}
	return nil
}
