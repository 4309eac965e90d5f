package main

import (
	"flag"

	"go-retail-stock/internal/repository"
	"go-retail-stock/pkg/config"
	"go-retail-stock/pkg/database"
	"go-retail-stock/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logger.Level, cfg.Server.IsProduction())

	email := flag.String("email", cfg.Seed.AdminEmail, "account to reset")
	newPassword := flag.String("password", cfg.Seed.AdminPassword, "new password")
	flag.Parse()

	if len(*newPassword) < 6 {
		log.Fatal("Password must be at least 6 characters")
	}

	db := database.ConnectDB(cfg.Database, log)
	userRepo := repository.NewUserRepo(db)

	// 1. Find user
	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.WithError(err).WithField("email", *email).Fatal("User not found in database")
	}

	// 2. Hash new password
	if err := user.SetPassword(*newPassword); err != nil {
		log.WithError(err).Fatal("Failed to hash password")
	}

	// 3. Update and sign out open sessions
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		log.WithError(err).Fatal("Failed to update password in DB")
	}
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.WithError(err).Fatal("Failed to revoke sessions")
	}

	log.WithField("email", *email).Info("Password has been reset")
}
