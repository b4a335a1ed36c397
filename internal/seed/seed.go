package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/linguahub/linguahub-backend/internal/app/models"
	appRepos "github.com/linguahub/linguahub-backend/internal/app/repositories"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

const defaultAdminEmail = "admin@linguahub.app"

// CreateDefaultData ensures a default admin account exists so a fresh
// deployment can approve courses and manage users immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default admin account...")

	_, err := userRepo.GetUserByEmail(ctx, defaultAdminEmail)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Email:         defaultAdminEmail,
		Password:      string(hashedPassword),
		FirstName:     "System",
		LastName:      "Administrator",
		RoleType:      appModels.RoleAdmin,
		Provider:      appModels.ProviderLocal,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	adminID, err := userRepo.CreateUser(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}
	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
