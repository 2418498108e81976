package user

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gripeboard/service-api/internal/auth"
)

// Handler exposes the admin user-listing endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns all registered users. Requires an authenticated admin.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
		return
	}
	if !u.IsAdmin {
		h.writeJSON(w, http.StatusForbidden, map[string]any{"error": "Admin access required"})
		return
	}
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list users failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "An unexpected error occurred"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
