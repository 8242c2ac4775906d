package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/worldos/console/internal/domain/project"
)

const maxBodyBytes = 10 << 20

// ProjectService defines project operations needed by the REST API.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Create(ctx context.Context, proj project.Project) (*project.Project, error)
	Update(ctx context.Context, id string, proj project.Project) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// Options configures the HTTP router.
type Options struct {
	Projects       ProjectService
	Logger         *slog.Logger
	AllowedOrigins []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	projects ProjectService
	logger   *slog.Logger
}

// corsOptions allows credentialed requests. Browsers refuse a literal "*"
// alongside credentials, so a wildcard list echoes the request origin instead.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
	}
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(logger))
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))
	}

	srv := &Server{projects: opts.Projects, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", srv.handleList)
		r.Post("/", srv.handleCreate)
		r.Get("/{projectID}", srv.handleGet)
		r.Put("/{projectID}", srv.handleUpdate)
		r.Delete("/{projectID}", srv.handleDelete)
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	proj, err := s.projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	proj, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	stored, err := s.projects.Create(r.Context(), proj)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	proj, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	stored, err := s.projects.Update(r.Context(), chi.URLParam(r, "projectID"), proj)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func (s *Server) decodeProject(w http.ResponseWriter, r *http.Request) (project.Project, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Detail: "request body too large"})
		return project.Project{}, false
	}
	proj, err := project.Decode(body)
	if err != nil {
		s.writeError(w, r, err)
		return project.Project{}, false
	}
	return proj, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := statusFor(err)
	if status >= http.StatusInternalServerError {
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", requestID, "error", err)
	}
	writeJSON(w, status, resp)
}
