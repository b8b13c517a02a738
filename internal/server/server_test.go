package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeui/lume-cli/internal/logging"
	"github.com/lumeui/lume-cli/internal/plugin"
)

func testLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelError,
		Format: "text",
		Output: os.Stderr,
	})
}

// newProjectDir lays out a minimal servable project tree.
func newProjectDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "public"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	index := `<!DOCTYPE html><html><head><title>placeholder</title></head><body><div id="app"></div></body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(root, "public", "index.html"), []byte(index), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "public", "favicon.ico"), []byte("icon"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "router.js"), []byte("// generated"), 0o644))

	return root
}

func newTestServer(t *testing.T, historyFallback bool) (*DevServer, *httptest.Server) {
	t.Helper()

	root := newProjectDir(t)
	s := New("localhost", 0, root, "My App",
		plugin.DevServerOptions{HistoryFallback: historyFallback}, testLogger())

	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)

	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestServeIndexPatchesTitleAndReload(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>My App</title>")
	assert.Contains(t, body, "/__lume/ws")
}

func TestServeStaticFiles(t *testing.T) {
	_, ts := newTestServer(t, true)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"public asset", "/favicon.ico", "icon"},
		{"generated router from src", "/router.js", "// generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestHistoryFallback(t *testing.T) {
	_, ts := newTestServer(t, true)

	// A client-side route has no file and no extension.
	resp, body := get(t, ts, "/about")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>My App</title>")

	// Missing assets with an extension still 404.
	resp, _ = get(t, ts, "/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryFallbackDisabled(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp, _ := get(t, ts, "/about")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBroadcastReload(t *testing.T) {
	s, ts := newTestServer(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/__lume/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Registration races the dial return; give the server a moment.
	require.Eventually(t, func() bool {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.BroadcastReload()

	typ, msg, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Equal(t, "reload", string(msg))
}

func TestPatchDocument(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		title      string
		liveReload bool
		contains   []string
		excludes   []string
	}{
		{
			name:       "replaces existing title",
			input:      `<html><head><title>old</title></head><body></body></html>`,
			title:      "new",
			liveReload: false,
			contains:   []string{"<title>new</title>"},
			excludes:   []string{"old", "WebSocket"},
		},
		{
			name:       "inserts missing title",
			input:      `<html><head></head><body></body></html>`,
			title:      "inserted",
			liveReload: false,
			contains:   []string{"<title>inserted</title>"},
		},
		{
			name:       "appends reload script",
			input:      `<html><head></head><body><p>hi</p></body></html>`,
			title:      "",
			liveReload: true,
			contains:   []string{"WebSocket", "location.reload()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PatchDocument([]byte(tt.input), tt.title, tt.liveReload)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, string(out), not)
			}
		})
	}
}
