package sandbox

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/dmitrymomot/alianzmail/pkg/id"
	"github.com/dmitrymomot/alianzmail/pkg/logger"
)

const stackSize = 4096

type tokenKey struct{}

// requestID echoes the caller's X-Request-ID, or a generated one, and stores
// it in the request context as the dispatch id for logging.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = id.New()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(logger.WithDispatchID(r.Context(), rid)))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]
				s.logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", v),
					slog.String("stack", string(stack)),
				)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// bearerAuth accepts "Authorization: Bearer <token>". When tokens were
// configured the token must be one of them.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing_token",
				"Missing bearer token. Include 'Authorization: Bearer <token>' in the request.")
			return
		}

		scheme, token, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "invalid_authorization",
				"Invalid authorization header format. Use 'Authorization: Bearer <token>'.")
			return
		}
		token = strings.TrimSpace(token)

		if len(s.tokens) > 0 {
			if _, known := s.tokens[token]; !known {
				writeError(w, http.StatusUnauthorized, "invalid_token", "The bearer token is not valid.")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey{}, token)))
	})
}

func tokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}
