// Command seed-admin creates an admin user. Admins cannot register through
// the API.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}
	if email == "" || password == "" {
		logger.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		return
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, 1)
	delegator.Start()
	defer delegator.Stop()

	tokens := auth.NewTokenIssuer(envConfig.JWTSecret, envConfig.TokenLifespan)
	users := service.NewUserService(dbStorage, delegator, tokens)

	id, err := users.CreateAdmin(context.Background(), name, email, password)
	if errors.Is(err, service.ErrUserExists) {
		logger.WithField("email", email).Info("admin already exists")
		return
	}
	if err != nil {
		logger.WithError(err).Error("UserService.CreateAdmin")
		return
	}

	logger.WithField("userID", id.String()).Info("admin created")
}
