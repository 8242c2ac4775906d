package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/worldos/console/internal/repository"
)

// Service handles project operations on behalf of the transports. It owns the
// single-writer lock around every load-mutate-save cycle of the repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu sync.RWMutex
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the clock used for default timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every project in storage order.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Create stores a project, filling in timestamps the caller left out. An
// existing project with the same ID is replaced, keeping its created_at.
func (s *Service) Create(ctx context.Context, proj Project) (*Project, error) {
	if err := validateIdentity(proj); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if proj.CreatedAt.IsZero() {
		proj.CreatedAt = now
	}
	if proj.UpdatedAt.IsZero() {
		proj.UpdatedAt = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.repo.Upsert(ctx, proj)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("project stored", "id", stored.ID, "name", stored.Name)
	return stored, nil
}

// Update replaces the project addressed by id. The body must carry the same
// ID and the project must already exist.
func (s *Service) Update(ctx context.Context, id string, proj Project) (*Project, error) {
	if proj.ID != id {
		return nil, fmt.Errorf("%w: path %q, body %q", ErrIDMismatch, id, proj.ID)
	}
	if err := validateIdentity(proj); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	proj.CreatedAt = existing.CreatedAt

	stored, err := s.repo.Upsert(ctx, proj)
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	s.logger.Info("project updated", "id", stored.ID)
	return stored, nil
}

// Delete removes the project with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if !deleted {
		return ErrProjectNotFound
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

func validateIdentity(proj Project) error {
	if strings.TrimSpace(proj.ID) == "" {
		return &ValidationError{Path: "id", Reason: "must not be blank"}
	}
	return Validate(proj)
}
