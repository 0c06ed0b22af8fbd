package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rgareau/taskline/internal/config"
	"github.com/rgareau/taskline/internal/platform/postgres"
	"github.com/rgareau/taskline/internal/service"
	"github.com/rgareau/taskline/internal/service/auth"
	"github.com/rgareau/taskline/internal/service/sequence"
	"github.com/rgareau/taskline/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	todoStore store.TodoStore
	tagStore  store.TagStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	todoService      service.TodoService
	tagService       service.TagService

	// Task number allocation
	allocator *sequence.Allocator
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password handling
	app.passwordVerifier = auth.NewBcryptVerifier()
	bcryptCost := cfg.Auth.BCryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hasher := auth.NewBcryptHasher(bcryptCost)

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, hasher, logger)
	app.todoStore = postgres.NewPostgresTodoStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)

	// The allocator serializes task number assignment per user.
	app.allocator = sequence.NewAllocator(logger.With("component", "sequence_allocator"))

	// Initialize services
	app.userService = service.NewUserService(app.userStore, db, logger)
	app.todoService = service.NewTodoService(app.todoStore, app.allocator, db, logger)
	app.tagService = service.NewTagService(app.tagStore, db, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
