package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rgareau/taskline/internal/api"
	apiMiddleware "github.com/rgareau/taskline/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	todoHandler := api.NewTodoHandler(app.todoService, app.logger)
	tagHandler := api.NewTagHandler(app.tagService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Todo endpoints
			r.Post("/todos", todoHandler.CreateTodo)
			r.Get("/todos", todoHandler.ListTodos)
			r.Get("/todos/{id}", todoHandler.GetTodo)
			r.Put("/todos/{id}", todoHandler.UpdateTodo)
			r.Delete("/todos/{id}", todoHandler.DeleteTodo)
			r.Post("/todos/{id}/toggle", todoHandler.ToggleCompletion)

			// Tag endpoints
			r.Post("/tags", tagHandler.CreateTag)
			r.Get("/tags", tagHandler.ListTags)
			r.Put("/tags/{id}", tagHandler.UpdateTag)
			r.Delete("/tags/{id}", tagHandler.DeleteTag)

			// Account endpoints
			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me/email", userHandler.UpdateEmail)
			r.Put("/users/me/password", userHandler.UpdatePassword)
			r.Delete("/users/me", userHandler.DeleteMe)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
