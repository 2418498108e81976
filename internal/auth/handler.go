package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gripeboard/service-api/internal/user/entity"
	userrepo "github.com/gripeboard/service-api/internal/user/repo"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

type ctxKey struct{}

// WithUser returns a context carrying the resolved current user (may be nil
// for anonymous requests).
func WithUser(ctx context.Context, u *entity.PublicUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the current user resolved by the middleware, or
// nil for anonymous requests.
func UserFromContext(ctx context.Context) *entity.PublicUser {
	u, _ := ctx.Value(ctxKey{}).(*entity.PublicUser)
	return u
}

// Config holds boundary-level knobs for the auth handler.
type Config struct {
	// SecureCookies marks the session cookie Secure; enabled in
	// production-like environments.
	SecureCookies bool
}

// ConfigFromEnv reads minimal config from env vars.
func ConfigFromEnv() Config {
	return Config{SecureCookies: os.Getenv("ENV") == "production"}
}

// Handler exposes the HTTP boundary of the auth core: register, login, me,
// logout, and the per-request current-user resolution middleware.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
	cfg    Config
}

func NewHandler(svc *Service, logger *zap.SugaredLogger, cfg Config) *Handler {
	return &Handler{svc: svc, logger: logger, cfg: cfg}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid payload"})
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email, password, and name are required"})
		return
	}
	id, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrDuplicateEmail):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email already exists"})
		case errors.Is(err, ErrMissingField):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email, password, and name are required"})
		default:
			h.logger.Errorw("register failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to register user"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "userId": id})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid payload"})
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Email and password are required"})
		return
	}
	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid email or password"})
		default:
			h.logger.Errorw("login failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to log in"})
		}
		return
	}
	h.setSessionCookie(w, session.SessionToken)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "userId": session.UserID})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := sessionTokenFromRequest(r)
	if err := h.svc.Logout(r.Context(), token); err != nil {
		h.logger.Errorw("logout failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to log out"})
		return
	}
	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Resolve returns a middleware that resolves the current user from the
// session cookie on every request and stores it in the context. Resolution
// never blocks the request: a store failure is logged and the request
// proceeds anonymous, so access decisions downstream fail closed to 401.
func (h *Handler) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionTokenFromRequest(r)
		u, err := h.svc.CurrentUser(r.Context(), token)
		if err != nil {
			h.logger.Errorw("resolve current user failed", "err", err)
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func sessionTokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
