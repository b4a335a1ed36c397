package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/auth"
	"github.com/linguahub/linguahub-backend/internal/pkg/email"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

const verificationTokenTTL = 48 * time.Hour

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo     UserStore
	tokenRepo    TokenStore
	jwtService   *auth.JWTService
	emailService email.EmailService
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo UserStore, tokenRepo TokenStore, jwtService *auth.JWTService, emailService email.EmailService) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtService:   jwtService,
		emailService: emailService,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateEmail validates an email address
func (s *authServiceImpl) validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !emailRegex.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

// validatePassword checks if password meets requirements
func (s *authServiceImpl) validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrInvalidPassword)
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrInvalidPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword)
	}

	return nil
}

// Register creates a new student or teacher account. Admin accounts are
// seeded or promoted, never self-registered.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.RoleType != models.RoleStudent && req.RoleType != models.RoleTeacher {
		return nil, fmt.Errorf("%w: role must be student or teacher", apperrors.ErrValidationFailed)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleType:  req.RoleType,
		Provider:  models.ProviderLocal,
		IsActive:  true,
	}

	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}
	user.ID = userID

	// Verification failures never block registration; the user can request
	// a new token later
	verificationToken := uuid.New().String()
	if err := s.tokenRepo.SaveVerificationToken(ctx, userID, verificationToken, time.Now().Add(verificationTokenTTL)); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Failed to save email verification token")
	} else if err := s.emailService.SendVerificationEmail(user.Email, user.FirstName+" "+user.LastName, verificationToken); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Failed to send verification email")
	}

	tokens, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: *tokens, User: dto.NewUserResponse(user)}, nil
}

// Login authenticates a user
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login timestamp")
	}

	tokens, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: *tokens, User: dto.NewUserResponse(user)}, nil
}

// RefreshToken creates a new token pair using a refresh token. The presented
// token is revoked either way; refresh tokens are single-use.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokenRepo.RevokeRefreshToken(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// VerifyEmail consumes a verification token and marks the account verified
func (s *authServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ErrInvalidEmailToken
	}

	userID, err := s.tokenRepo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidEmailToken) {
			return apperrors.ErrInvalidEmailToken
		}
		return fmt.Errorf("error consuming verification token: %w", err)
	}

	if err := s.userRepo.SetEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("error marking email verified: %w", err)
	}

	return nil
}

// GetProfile retrieves the authenticated user's profile
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// generateTokenResponse issues a token pair and persists the refresh half
func (s *authServiceImpl) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
