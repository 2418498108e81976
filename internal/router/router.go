package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/gripeboard/service-api/internal/auth"
	authrepo "github.com/gripeboard/service-api/internal/auth/repo"
	"github.com/gripeboard/service-api/internal/grievance"
	grievancerepo "github.com/gripeboard/service-api/internal/grievance/repo"
	"github.com/gripeboard/service-api/internal/user"
	userrepo "github.com/gripeboard/service-api/internal/user/repo"
	"github.com/gripeboard/service-api/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", r.Header.Get("X-Request-Id"),
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				// 30 days
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware tags every request with a KSUID so log lines and
// responses can be correlated. An inbound X-Request-Id is preserved.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewRequestID()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// corsFromEnv builds the CORS layer for the separate frontend. Credentials
// have to be allowed because the session rides in a cookie.
func corsFromEnv() *cors.Cors {
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// Every request passes through logging -> security headers -> request id ->
// CORS -> session resolution before reaching a handler.
func RegisterRoutes(
	logger *zap.SugaredLogger,
	users *userrepo.UserRepo,
	sessions *authrepo.SessionRepo,
	grievances *grievancerepo.GrievanceRepo,
) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth routes
	authSvc := auth.NewService(users, sessions, nil)
	authHandler := auth.NewHandler(authSvc, logger, auth.ConfigFromEnv())
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// grievance routes
	grievanceHandler := grievance.NewHandler(grievance.NewService(grievances), logger)
	mux.HandleFunc("GET /api/grievances", grievanceHandler.ListOwn)
	mux.HandleFunc("POST /api/grievances", grievanceHandler.Submit)
	mux.HandleFunc("GET /api/grievances/all", grievanceHandler.ListAll)

	// admin routes
	userHandler := user.NewHandler(user.NewService(users), logger)
	mux.HandleFunc("GET /api/admin/users", userHandler.List)

	handler := authHandler.Resolve(mux)
	handler = corsFromEnv().Handler(handler)
	handler = RequestIDMiddleware()(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = LoggingMiddleware(logger)(handler)
	return handler
}
