package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/worldos/console/internal/config"
	"github.com/worldos/console/internal/domain/project"
)

func sampleProject(id string) project.Project {
	return project.Project{ID: id, Name: "Sample " + id}
}

func TestOpen_FileBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "nested", "projects.json")

	a, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Projects.Create(ctx, sampleProject("p1"))
	require.NoError(t, err)

	reopened, err := Open(cfg, nil)
	require.NoError(t, err)
	projects, err := reopened.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "p1", projects[0].ID)
}

func TestOpen_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "db", "worldos.db")
	cfg.Metrics.Enabled = false

	a, err := Open(cfg, nil)
	require.NoError(t, err)

	_, err = a.Projects.Create(ctx, sampleProject("p1"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	reopened, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Projects.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Sample p1", got.Name)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "s3"

	_, err := Open(cfg, nil)
	require.ErrorContains(t, err, "unknown storage backend")
}
