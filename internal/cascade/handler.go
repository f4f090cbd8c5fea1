package cascade

import (
	"net/http"

	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

// Handler exposes account deletion over HTTP
type Handler struct {
	deleter *Deleter
}

func NewHandler(deleter *Deleter) *Handler {
	return &Handler{deleter: deleter}
}

// DeleteResponse is returned when a delete did not fully complete
type DeleteResponse struct {
	Msg    string  `json:"msg"`
	Code   string  `json:"code,omitempty"`
	Report *Report `json:"report,omitempty"`
}

// Delete removes the caller's posts, profile and account
// @Summary      Delete account
// @Description  Deletes the caller's posts, profile and account. Steps run concurrently and are not rolled back on partial failure.
// @Tags         profiles
// @Produce      json
// @Security     TokenAuth
// @Success      200 {object} DeleteResponse
// @Failure      401 {object} httputil.MessageResponse
// @Failure      500 {object} DeleteResponse
// @Router       /api/profiles [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.GetAccountIDFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	report, err := h.deleter.DeleteAccount(r.Context(), accountID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to delete account",
			"account_id", accountID,
			"error", err.Error(),
		)
		httputil.RespondJSON(w, DeleteResponse{
			Msg:    err.Error(),
			Code:   httputil.CodeDeleteIncomplete,
			Report: report,
		}, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, DeleteResponse{Msg: "User deleted"}, http.StatusOK)
}
