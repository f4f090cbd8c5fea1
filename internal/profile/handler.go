package profile

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

const (
	msgNoOwnProfile = "There is no profile for this user"
	msgNotFound     = "Profile not found"
)

// Handler contains HTTP handlers for profile endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upsert creates or updates the caller's profile
// @Summary      Create or update profile
// @Description  Status and skills are required. Skills may be an array or a comma-separated string. Links are normalized to https.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body object true "Profile fields"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorsResponse
// @Failure      401 {object} httputil.MessageResponse
// @Failure      500 {object} httputil.MessageResponse
// @Router       /api/profiles [post]
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var in ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondErrors(w, []httputil.FieldError{{Msg: err.Error()}}, http.StatusBadRequest)
		return
	}

	p, err := h.service.Upsert(r.Context(), accountID, in)
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// GetOwn returns the caller's profile
// @Summary      Current profile
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.MessageResponse "No profile yet"
// @Failure      401 {object} httputil.MessageResponse
// @Router       /api/profiles/me [get]
func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetOwn(r.Context(), accountID)
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// List returns every profile
// @Summary      All profiles
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Success      200 {array} Profile
// @Failure      500 {object} httputil.MessageResponse
// @Router       /api/profiles [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, r, err, msgNotFound)
		return
	}

	httputil.RespondJSON(w, profiles, http.StatusOK)
}

// GetByAccount returns the profile of the account in the URL
// @Summary      Profile by account
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Account ID"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.MessageResponse "Profile not found"
// @Router       /api/profiles/user/{id} [get]
func (h *Handler) GetByAccount(w http.ResponseWriter, r *http.Request) {
	// a malformed ID is reported like a missing profile
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondMessage(w, msgNotFound, httputil.CodeProfileNotFound, http.StatusBadRequest)
		return
	}

	p, err := h.service.GetByAccount(r.Context(), accountID)
	if err != nil {
		h.respondError(w, r, err, msgNotFound)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// AddExperience adds an experience entry to the caller's profile
// @Summary      Add experience
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body ExperienceInput true "Experience entry"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorsResponse
// @Router       /api/profiles/experience [put]
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var in ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondMessage(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.AddExperience(r.Context(), accountID, in)
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// RemoveExperience removes an experience entry from the caller's profile
// @Summary      Remove experience
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Param        entryID path string true "Experience entry ID"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.MessageResponse
// @Router       /api/profiles/experience/{entryID} [delete]
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	p, err := h.service.RemoveExperience(r.Context(), accountID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// AddEducation adds an education entry to the caller's profile
// @Summary      Add education
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body EducationInput true "Education entry"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorsResponse
// @Router       /api/profiles/education [put]
func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var in EducationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondMessage(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.AddEducation(r.Context(), accountID, in)
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// RemoveEducation removes an education entry from the caller's profile
// @Summary      Remove education
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Param        entryID path string true "Education entry ID"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.MessageResponse
// @Router       /api/profiles/education/{entryID} [delete]
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	p, err := h.service.RemoveEducation(r.Context(), accountID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.respondError(w, r, err, msgNoOwnProfile)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// respondError maps service errors: validation 400, missing profile 400 with
// notFoundMsg, missing account 400, anything else 500 carrying the underlying message.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if httputil.RespondValidation(w, err) {
		return
	}

	if errors.Is(err, ErrProfileNotFound) {
		httputil.RespondMessage(w, notFoundMsg, httputil.CodeProfileNotFound, http.StatusBadRequest)
		return
	}

	if errors.Is(err, ErrAccountNotFound) {
		httputil.RespondMessage(w, "User not found", httputil.CodeAccountMissing, http.StatusBadRequest)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Error("profile request failed", "error", err.Error())
	httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
}

func requireAccount(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, ok := auth.GetAccountIDFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
	}
	return accountID, ok
}
