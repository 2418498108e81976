package grievance

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gripeboard/service-api/internal/auth"
)

// Handler exposes HTTP endpoints for grievance submission and listing.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SubmitRequest request body for grievance submission.
type SubmitRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Mood     string `json:"mood"`
	Severity string `json:"severity"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	g, err := h.svc.Submit(r.Context(), u.ID, req.Title, req.Content, req.Mood, req.Severity)
	if err != nil {
		if errors.Is(err, ErrMissingField) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing required fields"})
			return
		}
		h.logger.Errorw("submit grievance failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "An unexpected error occurred"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "grievance": g})
}

// ListOwn returns the acting user's grievances.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
		return
	}
	list, err := h.svc.ListOwn(r.Context(), u.ID)
	if err != nil {
		h.logger.Errorw("list own grievances failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "An unexpected error occurred"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"grievances": list})
}

// ListAll returns every user's grievances to any authenticated user.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
		return
	}
	list, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.logger.Errorw("list all grievances failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "An unexpected error occurred"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"grievances": list})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
