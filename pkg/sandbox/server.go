package sandbox

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/alianzmail/pkg/health"
	"github.com/dmitrymomot/alianzmail/pkg/logger"
)

// SendPath is the route of the send endpoint, matching the production API.
const SendPath = "/v1/mail/send"

const defaultMaxBodyBytes = 10 << 20 // 10MB

// Server is an http.Handler serving the sandbox routes.
type Server struct {
	router       chi.Router
	store        *Store
	logger       *slog.Logger
	tokens       map[string]struct{}
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithTokens restricts the accepted bearer tokens.
// Without it any non-empty token is accepted.
func WithTokens(tokens ...string) Option {
	return func(s *Server) {
		for _, t := range tokens {
			if t != "" {
				s.tokens[t] = struct{}{}
			}
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the default unbounded store.
func WithStore(st *Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithMaxBodySize limits the accepted request body size. Defaults to 10MB.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New creates a sandbox server.
func New(opts ...Option) *Server {
	s := &Server{
		store:        NewStore(0),
		logger:       logger.NewNope(),
		tokens:       make(map[string]struct{}),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Store exposes the recorded messages.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverer, requestID)

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(health.Checks{
		"store": s.storeCheck,
	}, health.WithLogger(s.logger)))

	r.With(s.bearerAuth).Post(SendPath, s.send)

	r.Route("/admin/messages", func(r chi.Router) {
		r.Get("/", s.listMessages)
		r.Delete("/", s.resetMessages)
		r.Get("/{id}", s.getMessage)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})

	return r
}
