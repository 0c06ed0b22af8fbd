package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rgareau/taskline/internal/api/shared"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/platform/logger"
	"github.com/rgareau/taskline/internal/service"
)

// UpdatePasswordRequest is the payload for changing the authenticated user's password.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=12,max=72"`
}

// UpdateEmailRequest is the payload for changing the authenticated user's email.
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// UserResponse is the representation of a user account returned by the API.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserHandler handles account endpoints for the authenticated user.
type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// GetMe handles GET /users/me requests.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to retrieve user", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to retrieve account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// UpdatePassword handles PUT /users/me/password requests.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req UpdatePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.userService.UpdateUserPassword(r.Context(), userID, req.NewPassword); err != nil {
		log.Error("failed to update password", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to update password")
		return
	}

	log.Info("password updated", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateEmail handles PUT /users/me/email requests.
func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req UpdateEmailRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.userService.UpdateUserEmail(r.Context(), userID, req.NewEmail); err != nil {
		log.Error("failed to update email", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to update email")
		return
	}

	log.Info("email updated", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMe handles DELETE /users/me requests. Deleting an account cascades
// to the user's todos and tags.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		log.Error("failed to delete user", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	log.Info("account deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
