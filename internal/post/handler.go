package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

// Handler contains HTTP handlers for post endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create publishes a post as the caller
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body CreateInput true "Post"
// @Success      200 {object} Post
// @Failure      400 {object} httputil.ErrorsResponse
// @Failure      401 {object} httputil.MessageResponse
// @Router       /api/posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	accountID, ok := auth.GetAccountIDFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondMessage(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.Create(r.Context(), accountID, in)
	if err != nil {
		if httputil.RespondValidation(w, err) {
			return
		}
		if errors.Is(err, ErrAuthorNotFound) {
			httputil.RespondMessage(w, "User not found", httputil.CodeAccountMissing, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create post", "error", err.Error())
		httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// ListByAccount returns the posts of the account in the URL
// @Summary      Posts by account
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Account ID"
// @Success      200 {array} Post
// @Failure      400 {object} httputil.MessageResponse
// @Router       /api/posts/user/{id} [get]
func (h *Handler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondMessage(w, "invalid account id", httputil.CodeInvalidID, http.StatusBadRequest)
		return
	}

	posts, err := h.service.ListByAccount(r.Context(), accountID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list posts", "error", err.Error())
		httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, posts, http.StatusOK)
}
