package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

// RateLimitRemainingHeader tells the client how many register/login attempts
// are left in the current window
const RateLimitRemainingHeader = "X-RateLimit-Remaining"

// Handler contains HTTP handlers for account endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	logger      *logging.Logger
}

// NewHandler builds the account handlers. A nil rateLimiter disables throttling.
func NewHandler(service *Service, rateLimiter RateLimiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Register handles account registration
// @Summary      Register a new account
// @Description  Create an account and receive a token valid for five days
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body RegisterInput true "Registration details"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorsResponse "Validation error or user already exists"
// @Failure      429 {object} httputil.MessageResponse "Too many requests"
// @Failure      500 {object} httputil.MessageResponse "Internal server error"
// @Router       /api/accounts/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "register") {
		return
	}

	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondMessage(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		if httputil.RespondValidation(w, err) {
			logger.Warn("registration failed: validation error", "error", err.Error())
			return
		}
		if errors.Is(err, ErrDuplicateAccount) {
			logger.Warn("registration failed: email already exists")
			httputil.RespondError(w, "User already exists", http.StatusBadRequest)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Login handles account login
// @Summary      Log in
// @Description  Exchange email and password for a token
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body LoginInput true "Login credentials"
// @Success      200 {object} AuthResult
// @Failure      400 {object} httputil.ErrorsResponse "Validation error or invalid credentials"
// @Failure      429 {object} httputil.MessageResponse "Too many requests"
// @Failure      500 {object} httputil.MessageResponse "Internal server error"
// @Router       /api/accounts/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allow(w, r, "login") {
		return
	}

	var req LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondMessage(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		if httputil.RespondValidation(w, err) {
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "Invalid Credentials", http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Me returns the authenticated account
// @Summary      Current account
// @Description  Return the account behind the token, without the password hash
// @Tags         accounts
// @Produce      json
// @Security     TokenAuth
// @Success      200 {object} account.Account
// @Failure      400 {object} httputil.MessageResponse "Account no longer exists"
// @Failure      401 {object} httputil.MessageResponse "Missing or invalid token"
// @Failure      500 {object} httputil.MessageResponse "Internal server error"
// @Router       /api/accounts/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	accountID, ok := GetAccountIDFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, msgNoToken, httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	acc, err := h.service.WhoAmI(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			httputil.RespondMessage(w, "User not found", httputil.CodeAccountMissing, http.StatusBadRequest)
			return
		}
		logger.Error("failed to load account", "account_id", accountID, "error", err.Error())
		httputil.RespondMessage(w, err.Error(), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, acc, http.StatusOK)
}

// allow applies the per-IP limit for purpose, writing 429 when exceeded.
// Limiter failures are logged and the request goes through.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, purpose string) bool {
	if h.rateLimiter == nil {
		return true
	}

	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		w.Header().Set(RateLimitRemainingHeader, "0")
		httputil.RespondMessage(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return false
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
		return true
	}

	if remaining, err := h.rateLimiter.Remaining(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to read remaining requests", "error", err.Error())
	} else {
		w.Header().Set(RateLimitRemainingHeader, strconv.Itoa(remaining))
	}
	return true
}

func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
