package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rgareau/taskline/internal/api/shared"
	"github.com/rgareau/taskline/internal/domain"
	"github.com/rgareau/taskline/internal/platform/logger"
	"github.com/rgareau/taskline/internal/service"
)

// TagRequest defines the payload for creating or updating a tag.
type TagRequest struct {
	Name  string `json:"name"            validate:"required,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TagResponse represents the response data for a tag.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagHandler handles tag-related HTTP requests.
type TagHandler struct {
	tagService service.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService service.TagService, logger *slog.Logger) *TagHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TagHandler")
	}

	return &TagHandler{
		tagService: tagService,
		logger:     logger.With(slog.String("component", "tag_handler")),
	}
}

// CreateTag handles POST /tags requests.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req TagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, tagToResponse(tag))
}

// ListTags handles GET /tags requests.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	tags, err := h.tagService.ListTags(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}

	responses := make([]TagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = tagToResponse(tag)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateTag handles PUT /tags/{id} requests.
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req TagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := h.tagService.UpdateTag(r.Context(), userID, tagID, req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tag")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tagToResponse(tag))
}

// DeleteTag handles DELETE /tags/{id} requests.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, tagID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(r.Context(), userID, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// tagToResponse transforms a domain tag into its response shape.
func tagToResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:        tag.ID.String(),
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}
