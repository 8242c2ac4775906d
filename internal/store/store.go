// Package store persists the whole project collection as a single JSON array.
//
// Every operation loads the complete collection and every mutation rewrites
// it in full. The Store does no locking: concurrent read-modify-write cycles
// lose updates unless the caller serialises them (project.Service does).
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/repository"
)

// ErrCorruptStorage is matched by every CorruptStorageError.
var ErrCorruptStorage = errors.New("corrupt storage")

// CorruptStorageError reports persisted content that is not a valid project
// collection. Cause is the JSON syntax error or *project.ValidationError.
type CorruptStorageError struct {
	Cause error
}

func (e *CorruptStorageError) Error() string {
	return fmt.Sprintf("corrupt storage: %v", e.Cause)
}

func (e *CorruptStorageError) Unwrap() error { return e.Cause }

func (e *CorruptStorageError) Is(target error) bool { return target == ErrCorruptStorage }

// Medium is the byte-level backing storage for one named document.
type Medium interface {
	// Exists reports whether the document has been written.
	Exists(ctx context.Context) (bool, error)
	// Read returns the full document.
	Read(ctx context.Context) ([]byte, error)
	// Replace overwrites the document in full. Readers observe either the
	// previous or the new content, never a mix.
	Replace(ctx context.Context, data []byte) error
}

// Store implements project.Repository over a Medium.
type Store struct {
	medium Medium
	now    func() time.Time
	logger *slog.Logger
}

var _ project.Repository = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithClock sets the clock used for updated_at and default created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store on top of medium.
func New(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var emptyCollection = []byte("[]")

// ensure creates an empty collection when nothing has been persisted yet.
func (s *Store) ensure(ctx context.Context) error {
	ok, err := s.medium.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking storage: %w", err)
	}
	if ok {
		return nil
	}
	s.logger.Debug("initialising empty project collection")
	if err := s.medium.Replace(ctx, emptyCollection); err != nil {
		return fmt.Errorf("initialising storage: %w", err)
	}
	return nil
}

// LoadAll returns every stored project in file order.
func (s *Store) LoadAll(ctx context.Context) ([]project.Project, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	data, err := s.medium.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading storage: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []project.Project{}, nil
	}

	projects, err := project.DecodeCollection(data)
	if err != nil {
		s.logger.Error("project collection failed validation", "error", err)
		return nil, &CorruptStorageError{Cause: err}
	}
	return projects, nil
}

// SaveAll overwrites storage with projects.
func (s *Store) SaveAll(ctx context.Context, projects []project.Project) error {
	data, err := Encode(projects)
	if err != nil {
		return err
	}
	if err := s.medium.Replace(ctx, data); err != nil {
		return fmt.Errorf("writing storage: %w", err)
	}
	return nil
}

// Encode renders projects in the canonical on-disk form.
func Encode(projects []project.Project) ([]byte, error) {
	if projects == nil {
		projects = []project.Project{}
	}
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding projects: %w", err)
	}
	return data, nil
}

// Get returns the first project with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*project.Project, error) {
	projects, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// Upsert replaces the project with the same ID in place, or appends it.
// On replace the stored created_at wins over the incoming one; updated_at is
// always set to the current time.
func (s *Store) Upsert(ctx context.Context, proj project.Project) (*project.Project, error) {
	if err := project.Validate(proj); err != nil {
		return nil, err
	}
	projects, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stored := proj.Clone()
	stored.UpdatedAt = now

	idx := -1
	for i := range projects {
		if projects[i].ID == proj.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		stored.CreatedAt = projects[idx].CreatedAt
		projects[idx] = stored
	} else {
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		projects = append(projects, stored)
	}

	if err := s.SaveAll(ctx, projects); err != nil {
		return nil, err
	}
	s.logger.Debug("project upserted", "id", stored.ID, "created", idx < 0, "count", len(projects))
	return &stored, nil
}

// Delete removes every project with the given ID. It reports false, without
// writing, when nothing matched.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	projects, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return false, nil
	}
	if err := s.SaveAll(ctx, kept); err != nil {
		return false, err
	}
	s.logger.Debug("project deleted", "id", id, "removed", len(projects)-len(kept))
	return true, nil
}
