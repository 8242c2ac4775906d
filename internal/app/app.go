// Package app assembles the project service from configuration. Both the
// server and the operator CLI go through Open so they read and write the
// same backing storage the same way.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/worldos/console/internal/config"
	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/filesystem"
	"github.com/worldos/console/internal/metrics"
	"github.com/worldos/console/internal/sqlite"
	"github.com/worldos/console/internal/store"
)

// App holds the wired project service and the resources behind it.
type App struct {
	Projects *project.Service
	Store    *store.Store

	closers []io.Closer
}

// Open builds the medium named by cfg.Storage, the store on top of it and
// the project service. Repository metrics are recorded when
// cfg.Metrics.Enabled is set.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{}
	medium, err := a.openMedium(cfg.Storage)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Store = store.New(medium, store.WithLogger(logger))
	var repo project.Repository = a.Store
	if cfg.Metrics.Enabled {
		repo = metrics.Instrument(a.Store)
	}
	a.Projects = project.NewService(repo, logger)

	logger.Info("project storage ready", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return a, nil
}

func (a *App) openMedium(cfg config.StorageConfig) (store.Medium, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return filesystem.Open(cfg.Path)
	case config.BackendSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		if err := db.RunMigrations(); err != nil {
			return nil, err
		}
		return sqlite.NewDocument(db, cfg.Document), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close releases the storage resources.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func ensureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
