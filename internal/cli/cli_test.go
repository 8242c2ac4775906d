package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/worldos/console/internal/domain/project"
)

const ashfall = `{
	"id": "ashfall",
	"name": "Ashfall",
	"type": "novel",
	"tiers": {
		"T0_foundation": {},
		"T1_core": {},
		"T3_characters": [{"id": "c1", "name": "Ilse"}]
	}
}`

// storedAshfall is ashfall as it appears in backing storage.
const storedAshfall = `{"id":"ashfall","name":"Ashfall","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z","tiers":{"T0_foundation":{},"T1_core":{}}}`

func init() {
	color.NoColor = true
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := RootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_ProjectsWorkflow(t *testing.T) {
	dir := t.TempDir()
	storage := filepath.Join(dir, "projects.json")
	docPath := filepath.Join(dir, "ashfall.json")
	require.NoError(t, os.WriteFile(docPath, []byte(ashfall), 0o644))

	out, err := run(t, "", "projects", "list", "--storage", storage)
	require.NoError(t, err)
	require.Contains(t, out, "No projects.")

	out, err = run(t, "", "projects", "put", docPath, "--storage", storage)
	require.NoError(t, err)
	require.Contains(t, out, "saved ashfall (Ashfall)")

	out, err = run(t, "", "projects", "list", "--storage", storage)
	require.NoError(t, err)
	require.Contains(t, out, "ID")
	require.Contains(t, out, "ashfall")
	require.Contains(t, out, "novel")

	out, err = run(t, "", "projects", "get", "ashfall", "--storage", storage)
	require.NoError(t, err)
	got, err := project.Decode([]byte(out))
	require.NoError(t, err)
	require.Equal(t, "Ilse", got.Tiers.Characters[0].Name)
	require.False(t, got.CreatedAt.IsZero())

	out, err = run(t, "", "projects", "delete", "ashfall", "--storage", storage)
	require.NoError(t, err)
	require.Contains(t, out, "deleted ashfall")

	_, err = run(t, "", "projects", "get", "ashfall", "--storage", storage)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestCLI_PutFromStdinWithSQLite(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "worldos.db")

	_, err := run(t, ashfall, "projects", "put", "-", "--backend", "sqlite", "--storage", storage)
	require.NoError(t, err)

	out, err := run(t, "", "projects", "list", "--json", "--backend", "sqlite", "--storage", storage)
	require.NoError(t, err)
	projects, err := project.DecodeCollection([]byte(out))
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestCLI_PutRejectsInvalidDocument(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "projects.json")

	_, err := run(t, `{"id":"x","tiers":{"T0_foundation":{},"T1_core":{}}}`, "projects", "put", "-", "--storage", storage)
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.ErrorContains(t, err, "name")

	_, statErr := os.Stat(storage)
	require.True(t, os.IsNotExist(statErr))
}

func TestCLI_Validate(t *testing.T) {
	dir := t.TempDir()

	single := filepath.Join(dir, "single.json")
	require.NoError(t, os.WriteFile(single, []byte(ashfall), 0o644))
	out, err := run(t, "", "validate", single)
	require.NoError(t, err)
	require.Contains(t, out, "1 project(s)")

	collection := filepath.Join(dir, "collection.json")
	require.NoError(t, os.WriteFile(collection, []byte("["+storedAshfall+","+storedAshfall+"]"), 0o644))
	out, err = run(t, "", "validate", collection)
	require.NoError(t, err)
	require.Contains(t, out, "2 project(s)")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`[{"id":"a","name":"A","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}]`), 0o644))
	_, err = run(t, "", "validate", broken)
	var verr *project.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "[0].tiers", verr.Path)

	// Stored records must carry their timestamps.
	unstamped := filepath.Join(dir, "unstamped.json")
	require.NoError(t, os.WriteFile(unstamped, []byte("["+ashfall+"]"), 0o644))
	_, err = run(t, "", "validate", unstamped)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "[0].created_at", verr.Path)
}
