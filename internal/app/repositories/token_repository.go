package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// RefreshToken is the stored server-side half of a token pair
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// VerificationToken is a single-use email verification token
type VerificationToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// TokenRepository handles refresh and verification token persistence
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SaveRefreshToken persists a refresh token for a user
func (r *TokenRepository) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build save refresh token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error saving refresh token")
		return fmt.Errorf("error saving refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a refresh token record by its token value
func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	sql, args, err := r.sb.Select("id", "user_id", "token", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build get refresh token query: %w", err)
	}

	rt := &RefreshToken{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning refresh token row")
		return nil, fmt.Errorf("error getting refresh token: %w", err)
	}

	return rt, nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build revoke refresh token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error revoking refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// SaveVerificationToken persists an email verification token
func (r *TokenRepository) SaveVerificationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("verification_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build save verification token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error saving verification token")
		return fmt.Errorf("error saving verification token: %w", err)
	}

	return nil
}

// ConsumeVerificationToken marks an unused, unexpired verification token as
// used and returns its owner. Expired, missing or already-used tokens all
// surface as ErrInvalidEmailToken.
func (r *TokenRepository) ConsumeVerificationToken(ctx context.Context, token string) (int64, error) {
	sql, args, err := r.sb.Update("verification_tokens").
		Set("used", true).
		Where(squirrel.Eq{"token": token, "used": false}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Suffix("RETURNING user_id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("failed to build consume verification token query: %w", err)
	}

	var userID int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrInvalidEmailToken
		}
		logger.Error().Err(err).Msg("Error consuming verification token")
		return 0, fmt.Errorf("error consuming verification token: %w", err)
	}

	return userID, nil
}
