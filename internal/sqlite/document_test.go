package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocument_Lifecycle(t *testing.T) {
	db := NewTestDB(t)
	doc := NewDocument(db, "projects.json")
	ctx := context.Background()

	ok, err := doc.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = doc.Read(ctx)
	require.ErrorIs(t, err, errNoDocument)

	require.NoError(t, doc.Replace(ctx, []byte(`[]`)))
	ok, err = doc.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, doc.Replace(ctx, []byte(`[{"id":"p1"}]`)))
	data, err := doc.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"p1"}]`, string(data))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestDocument_NamesAreIndependent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	a := NewDocument(db, "a.json")
	b := NewDocument(db, "b.json")
	require.NoError(t, a.Replace(ctx, []byte(`["a"]`)))

	ok, err := b.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
