package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/repositories"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/auth"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = copyUser(user)
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) ListUsers(ctx context.Context, offset uint64, limit int) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []*models.User{}
	for _, user := range f.users {
		users = append(users, copyUser(user))
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	return f.stamp(id, func(u *models.User) { now := time.Now(); u.LastLoginAt = &now })
}

func (f *fakeUserStore) UpdateLastStudyDate(ctx context.Context, id int64) error {
	return f.stamp(id, func(u *models.User) { now := time.Now(); u.LastStudyDate = &now })
}

func (f *fakeUserStore) SetActive(ctx context.Context, id int64, active bool) error {
	return f.stamp(id, func(u *models.User) { u.IsActive = active })
}

func (f *fakeUserStore) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	return f.stamp(id, func(u *models.User) { u.RoleType = role })
}

func (f *fakeUserStore) SetEmailVerified(ctx context.Context, id int64) error {
	return f.stamp(id, func(u *models.User) { u.EmailVerified = true })
}

func (f *fakeUserStore) stamp(id int64, apply func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	apply(user)
	return nil
}

type fakeTokenStore struct {
	mu            sync.Mutex
	refresh       map[string]*repositories.RefreshToken
	verifications map[string]int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		refresh:       make(map[string]*repositories.RefreshToken),
		verifications: make(map[string]int64),
	}
}

func (f *fakeTokenStore) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh[token] = &repositories.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (f *fakeTokenStore) GetRefreshToken(ctx context.Context, token string) (*repositories.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.refresh[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeTokenStore) RevokeRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.refresh[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.Revoked = true
	return nil
}

func (f *fakeTokenStore) SaveVerificationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications[token] = userID
	return nil
}

func (f *fakeTokenStore) ConsumeVerificationToken(ctx context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.verifications[token]
	if !ok {
		return 0, apperrors.ErrInvalidEmailToken
	}
	delete(f.verifications, token)
	return userID, nil
}

type noopEmails struct {
	mu   sync.Mutex
	sent []string
}

func (n *noopEmails) SendVerificationEmail(toEmail, toName, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, token)
	return nil
}

func (n *noopEmails) SendCourseApprovedEmail(toEmail, toName, courseTitle string) error { return nil }

func (n *noopEmails) SendCourseRejectedEmail(toEmail, toName, courseTitle, reason string) error {
	return nil
}

type authFixture struct {
	users  *fakeUserStore
	tokens *fakeTokenStore
	emails *noopEmails
	svc    AuthService
}

func newAuthFixture() *authFixture {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	emails := &noopEmails{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return &authFixture{
		users:  users,
		tokens: tokens,
		emails: emails,
		svc:    NewAuthService(users, tokens, jwtService, emails),
	}
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "sup3rsecret",
		FirstName: "Jane",
		LastName:  "Doe",
		RoleType:  models.RoleStudent,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration issues tokens and a verification email", func(t *testing.T) {
		fx := newAuthFixture()
		resp, err := fx.svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.Len(t, fx.emails.sent, 1)

		stored := fx.users.users[resp.User.ID]
		assert.False(t, stored.EmailVerified)
		assert.True(t, stored.IsActive)
		assert.NotEqual(t, "sup3rsecret", stored.Password)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		fx := newAuthFixture()
		_, err := fx.svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		_, err = fx.svc.Register(ctx, registerRequest())
		require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("admin role cannot be self-registered", func(t *testing.T) {
		fx := newAuthFixture()
		req := registerRequest()
		req.RoleType = models.RoleAdmin
		_, err := fx.svc.Register(ctx, req)
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("weak passwords are rejected", func(t *testing.T) {
		fx := newAuthFixture()
		for _, password := range []string{"short1", "alllowercase", "12345678"} {
			req := registerRequest()
			req.Password = password
			_, err := fx.svc.Register(ctx, req)
			require.Error(t, err, "password %q", password)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials log in", func(t *testing.T) {
		fx := newAuthFixture()
		_, err := fx.svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		resp, err := fx.svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "sup3rsecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotNil(t, fx.users.users[resp.User.ID].LastLoginAt)
	})

	t.Run("wrong password reads as invalid credentials", func(t *testing.T) {
		fx := newAuthFixture()
		_, err := fx.svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		_, err = fx.svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrongpass1"})
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email reads the same as a wrong password", func(t *testing.T) {
		fx := newAuthFixture()
		_, err := fx.svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account cannot log in", func(t *testing.T) {
		fx := newAuthFixture()
		resp, err := fx.svc.Register(ctx, registerRequest())
		require.NoError(t, err)
		require.NoError(t, fx.users.SetActive(ctx, resp.User.ID, false))

		_, err = fx.svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "sup3rsecret"})
		require.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()
	resp, err := fx.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	original := resp.Token.RefreshToken

	rotated, err := fx.svc.RefreshToken(ctx, original)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// Refresh tokens are single-use
	_, err = fx.svc.RefreshToken(ctx, original)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	t.Run("expired token is revoked on sight", func(t *testing.T) {
		fx.tokens.refresh[rotated.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
		_, err := fx.svc.RefreshToken(ctx, rotated.RefreshToken)
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
		assert.True(t, fx.tokens.refresh[rotated.RefreshToken].Revoked)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := fx.svc.RefreshToken(ctx, "never-issued")
		require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()
	resp, err := fx.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.Len(t, fx.emails.sent, 1)
	token := fx.emails.sent[0]

	require.NoError(t, fx.svc.VerifyEmail(ctx, token))
	assert.True(t, fx.users.users[resp.User.ID].EmailVerified)

	// Verification tokens are single-use
	err = fx.svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()
	resp, err := fx.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	profile, err := fx.svc.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)

	_, err = fx.svc.GetProfile(ctx, 9999)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
