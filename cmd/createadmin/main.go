// createadmin bootstraps the admin account against whichever storage
// backend the environment selects. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/technurture/backend/config"
	"github.com/technurture/backend/internal/container"
	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	username := flag.String("username", cfg.AdminUsername, "admin username")
	password := flag.String("password", cfg.AdminPassword, "admin password")
	flag.Parse()

	logger := helpers.NewLogger(cfg.AppName+"-createadmin", cfg.Env)
	container.SetConfig(cfg)
	container.SetLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The memory backend seeds its own admin, so this tool only matters for
	// the persistent backends; it still works against memory for parity.
	store, err := container.ResolveStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	if existing, err := store.GetUserByUsername(ctx, *username); err == nil && existing != nil {
		logger.WithField("username", *username).Info("admin already exists, nothing to do")
		return
	}

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u := &entity.User{Username: *username, Password: hash, Role: entity.RoleAdmin}
	if err := store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			logger.WithField("username", *username).Info("admin already exists, nothing to do")
			return
		}
		log.Fatalf("create admin: %v", err)
	}
	logger.WithField("username", u.Username).WithField("id", u.ID).Info("admin created")
}
