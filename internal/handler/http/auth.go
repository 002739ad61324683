package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"
	"github.com/nguyenhoangkha03/salesdesk/pkg/httputil"

	"github.com/nguyenhoangkha03/salesdesk/internal/auth"
)

// AuthHandler exposes the session snapshot and gate evaluation so callers
// can decide which surfaces to render without re-encoding the rules.
type AuthHandler struct {
	logger *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// SessionResponse is the wire shape of the session snapshot.
type SessionResponse struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// GateResponse reports the outcome of one gate evaluation.
type GateResponse struct {
	Allowed bool `json:"allowed"`
}

// GetSession handles GET /api/v1/auth/session.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		httputil.WriteError(w, r, apperrors.ErrUnauthorized, h.logger)
		return
	}
	perms := session.Permissions()
	if perms == nil {
		perms = []string{}
	}
	sort.Strings(perms)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SessionResponse{
		UserID:      session.UserID,
		Role:        session.Role,
		Permissions: perms,
	}})
}

// EvaluateGate handles POST /api/v1/auth/gate. The body is a gate predicate;
// the response says whether the current session passes it.
func (h *AuthHandler) EvaluateGate(w http.ResponseWriter, r *http.Request) {
	var gate auth.Gate
	if err := json.NewDecoder(r.Body).Decode(&gate); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	session := SessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: GateResponse{
		Allowed: gate.Allows(session),
	}})
}
