package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
	"github.com/linguahub/linguahub-backend/internal/server"
)

// @title LinguaHub API
// @version 1.0
// @description API for the LinguaHub English learning platform

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local overrides for development; absence of .env is fine
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment overrides from .env")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
