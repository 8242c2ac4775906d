package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func TestDocument_MissingFile(t *testing.T) {
	doc := NewDocument(memfs.New(), "data/projects.json")
	ctx := context.Background()

	ok, err := doc.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = doc.Read(ctx)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocument_ReplaceCreatesParentDirs(t *testing.T) {
	fs := memfs.New()
	doc := NewDocument(fs, "data/nested/projects.json")
	ctx := context.Background()

	require.NoError(t, doc.Replace(ctx, []byte("[]")))

	ok, err := doc.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	data, err := doc.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestDocument_ReplaceOverwritesAndLeavesNoTempFiles(t *testing.T) {
	fs := memfs.New()
	doc := NewDocument(fs, "data/projects.json")
	ctx := context.Background()

	require.NoError(t, doc.Replace(ctx, []byte(`[{"id":"p1"}, {"id":"p2"}]`)))
	require.NoError(t, doc.Replace(ctx, []byte(`[]`)))

	data, err := util.ReadFile(fs, "data/projects.json")
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))

	entries, err := fs.ReadDir("data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "projects.json", entries[0].Name())
}

func TestOpen_HostFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "projects.json")
	doc, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := doc.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, doc.Replace(ctx, []byte(`[]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}
