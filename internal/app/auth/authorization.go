package auth

import (
	"context"
	"errors"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/repositories"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// ErrPermissionDenied is returned when a database-backed role check fails;
// it maps to the same 403 response as the service-level permission errors.
var ErrPermissionDenied = errors.New("you don't have permission for this action")

// AuthorizationService answers role questions against the database instead of
// the JWT claims. Admin-only routes use it so a role change or deactivation
// takes effect before the access token expires.
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo: userRepo,
	}
}

// IsAdmin checks if the user currently holds the admin role
func (s *AuthorizationService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in IsAdmin")
		return false, err
	}
	return user.IsActive && user.RoleType == models.RoleAdmin, nil
}

// ValidateAdmin validates that the user is an active admin or returns an error
func (s *AuthorizationService) ValidateAdmin(ctx context.Context, userID int64) error {
	isAdmin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrPermissionDenied
	}
	return nil
}
