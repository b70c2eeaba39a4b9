package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"

	"github.com/oksasatya/photo-gallery/config"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	pginfra "github.com/oksasatya/photo-gallery/internal/infrastructure/postgres"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

type seedUser struct {
	name    string
	email   string
	isAdmin bool
}

var seedUsers = []seedUser{
	{name: "Admin User", email: "admin@example.com", isAdmin: true},
	{name: "Regular User", email: "user@example.com"},
}

const seedPassword = "password"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	users := pginfra.NewUserRepository(pool)

	hash, err := helpers.HashPassword(seedPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	for _, s := range seedUsers {
		existing, err := users.GetByEmail(ctx, s.email)
		if err == nil && existing != nil {
			logger.WithField("email", s.email).Info("user exists, skipping")
			continue
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			logger.Fatalf("lookup %s: %v", s.email, err)
		}
		u := &entity.User{Name: s.name, Email: s.email, Password: hash, IsAdmin: s.isAdmin}
		if err := users.Create(ctx, u); err != nil {
			logger.Fatalf("seed %s: %v", s.email, err)
		}
		logger.WithFields(map[string]any{"id": u.ID, "email": u.Email, "admin": u.IsAdmin}).Info("seeded user")
	}
}
