package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notetaker/cmd/internal/config"
	"notetaker/cmd/internal/domain/policy"
	"notetaker/cmd/internal/domain/sqlite"
	"notetaker/cmd/internal/domain/sqlite/repository"
	"notetaker/cmd/internal/http/handler"
	"notetaker/cmd/internal/http/middleware"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/service"
	"notetaker/cmd/internal/service/jobs"
	"notetaker/cmd/internal/utils/validators"

	"github.com/labstack/gommon/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Production {
		log.SetLevel(log.DEBUG)
	}

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	validate := validators.New()
	ownership := policy.NewOwnershipPolicy()
	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, tokenRepo, issuer, validate)
	categoryService := service.NewCategoryService(categoryRepo, ownership, validate)
	noteService := service.NewNoteService(noteRepo, categoryRepo, ownership, validate)

	// Background jobs
	go jobs.NewBlacklistCleaner(tokenRepo).Start(ctx)

	e := handler.NewRouter(&handler.RouterConfig{
		Categories:  handler.NewCategoryDefault(categoryService),
		Notes:       handler.NewNoteDefault(noteService),
		Users:       handler.NewUserDefault(userService),
		Auth:        middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Authenticator: userService}),
		BodyLimit:   cfg.BodyLimit,
		LogRequests: true,
	})

	go func() {
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down gracefully: %v", err)
	}
}
