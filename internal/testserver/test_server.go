// Package testserver starts the full HTTP stack on an in-memory filesystem
// for end-to-end tests.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/filesystem"
	"github.com/worldos/console/internal/mcp"
	"github.com/worldos/console/internal/store"
	"github.com/worldos/console/internal/transport"
)

// DocumentName is the backing document inside FS.
const DocumentName = "projects.json"

type TestServer struct {
	Server   *httptest.Server
	FS       billy.Filesystem
	Projects *project.Service
}

// Option adjusts the test server.
type Option func(*settings)

type settings struct {
	now func() time.Time
}

// WithClock fixes the time used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	cfg := settings{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	fs := memfs.New()
	s := store.New(filesystem.NewDocument(fs, DocumentName), store.WithClock(cfg.now))
	projects := project.NewService(s, nil, project.WithClock(cfg.now))

	mcpServer := mcp.NewServer(mcp.Config{Projects: projects})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Projects:       projects,
		AllowedOrigins: []string{"*"},
		MCP:            mcpHandler,
	}))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		FS:       fs,
		Projects: projects,
	}
}

// URL joins path onto the server base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
