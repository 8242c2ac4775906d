package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/filesystem"
	"github.com/worldos/console/internal/store"
)

const alpha = `{"id":"p1","name":"Alpha","tiers":{"T0_foundation":{},"T1_core":{}}}`

func newTestServer(t *testing.T) (*httptest.Server, billy.Filesystem) {
	t.Helper()

	fs := memfs.New()
	clock := func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	s := store.New(filesystem.NewDocument(fs, "projects.json"), store.WithClock(clock))
	svc := project.NewService(s, nil, project.WithClock(clock))

	server := httptest.NewServer(NewServer(Options{
		Projects:       svc,
		AllowedOrigins: []string{"*"},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		}),
	}))
	t.Cleanup(server.Close)
	return server, fs
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestHTTPServer_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_RequestIDEchoed(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_ProjectLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/projects", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))

	resp, body = doJSON(t, http.MethodPost, server.URL+"/projects", alpha)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "other", created["type"])
	require.Equal(t, "2025-05-01T12:00:00Z", created["created_at"])

	resp, body = doJSON(t, http.MethodPut, server.URL+"/projects/p1",
		`{"id":"p1","name":"Alpha Prime","tiers":{"T0_foundation":{},"T1_core":{}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "Alpha Prime", updated["name"])
	require.Equal(t, created["created_at"], updated["created_at"])

	resp, body = doJSON(t, http.MethodGet, server.URL+"/projects/p1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Alpha Prime")

	resp, body = doJSON(t, http.MethodDelete, server.URL+"/projects/p1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"deleted"}`, string(body))

	resp, body = doJSON(t, http.MethodGet, server.URL+"/projects", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))
}

func TestHTTPServer_Errors(t *testing.T) {
	server, fs := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/projects/missing", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/projects/missing", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/projects/missing", `{"id":"missing","name":"x","tiers":{"T0_foundation":{},"T1_core":{}}}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/projects/p1", `{"id":"p2","name":"x","tiers":{"T0_foundation":{},"T1_core":{}}}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/projects", `{"id":"p1","tiers":{"T0_foundation":{},"T1_core":{}}}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.Equal(t, "name", errResp.Path)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/projects", `{not json`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	require.NoError(t, util.WriteFile(fs, "projects.json", []byte(`{"oops":`), 0o644))
	resp, body = doJSON(t, http.MethodGet, server.URL+"/projects", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.Equal(t, "Project storage is corrupt", errResp.Detail)
}

func TestHTTPServer_MetricsMounted(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "metrics", string(body))

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/mcp", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_CORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHTTPServer_CORSEchoesOriginWithCredentials(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://atlas.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "https://atlas.example", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestHTTPServer_CORSExplicitOrigins(t *testing.T) {
	server := httptest.NewServer(NewServer(Options{
		Projects:       failingService{},
		AllowedOrigins: []string{"https://atlas.example"},
	}))
	t.Cleanup(server.Close)

	for origin, want := range map[string]string{
		"https://atlas.example": "https://atlas.example",
		"https://other.example": "",
	} {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, want, resp.Header.Get("Access-Control-Allow-Origin"), origin)
	}
}

type failingService struct{ ProjectService }

func (failingService) List(context.Context) ([]project.Project, error) {
	return nil, errors.New("disk on fire")
}

func TestHTTPServer_InternalErrorHidesCause(t *testing.T) {
	server := httptest.NewServer(NewServer(Options{Projects: failingService{}}))
	t.Cleanup(server.Close)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/projects", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotContains(t, string(body), "disk on fire")
}
