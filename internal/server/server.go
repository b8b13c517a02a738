// Package server implements the lume-cli development server.
//
// The server serves a project's public/ and src/ trees, rewrites unknown GET
// paths to the index document when history-fallback routing is enabled, and
// notifies connected browsers over a websocket whenever a watcher-triggered
// pass rewrote the generated router. It serves files only; bundling is the
// build tool's business.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/lumeui/lume-cli/internal/logging"
	"github.com/lumeui/lume-cli/internal/plugin"
)

// writeWait bounds how long a reload broadcast may block per client.
const writeWait = 5 * time.Second

// DevServer serves a Lume project during development.
type DevServer struct {
	host    string
	port    int
	root    string
	title   string
	options plugin.DevServerOptions
	logger  logging.Logger

	httpServer *http.Server

	mutex   sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a development server for the project at root. options comes
// from the compiler option tree after the plugin adapter patched it.
func New(host string, port int, root, title string, options plugin.DevServerOptions, logger logging.Logger) *DevServer {
	s := &DevServer{
		host:    host,
		port:    port,
		root:    root,
		title:   title,
		options: options,
		logger:  logger.WithComponent("server"),
		clients: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/__lume/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleStatic)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
	}

	return s
}

// Addr returns the address the server binds to.
func (s *DevServer) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is done or ListenAndServe fails.
func (s *DevServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Shutdown closes client connections and stops the HTTP server.
func (s *DevServer) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	for conn := range s.clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.mutex.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// BroadcastReload tells every connected browser to reload. Wired to the
// plugin adapter's resynthesis callback.
func (s *DevServer) BroadcastReload() {
	s.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mutex.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		if err := conn.Write(ctx, websocket.MessageText, []byte("reload")); err != nil {
			s.removeClient(conn)
		}
		cancel()
	}
}

func (s *DevServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	s.mutex.Lock()
	s.clients[conn] = struct{}{}
	s.mutex.Unlock()

	// Drain reads until the browser goes away.
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.Read(context.Background()); err != nil {
				return
			}
		}
	}()
}

func (s *DevServer) removeClient(conn *websocket.Conn) {
	s.mutex.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	s.mutex.Unlock()
}

// handleStatic serves project files: public/ first, then src/. Non-file GET
// paths fall back to the index document when history-fallback is enabled.
func (s *DevServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqPath := path.Clean(r.URL.Path)
	if strings.Contains(reqPath, "..") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	if reqPath == "/" {
		s.serveIndex(w, r)
		return
	}

	for _, base := range []string{"public", "src"} {
		candidate := filepath.Join(s.root, base, filepath.FromSlash(reqPath))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, r, candidate)
			return
		}
	}

	// History fallback: client-side routes have no extension and no file.
	if s.options.HistoryFallback && path.Ext(reqPath) == "" {
		s.serveIndex(w, r)
		return
	}

	http.NotFound(w, r)
}

// serveIndex serves public/index.html with the configured title and the
// live-reload script injected.
func (s *DevServer) serveIndex(w http.ResponseWriter, r *http.Request) {
	indexPath := filepath.Join(s.root, "public", "index.html")

	content, err := os.ReadFile(indexPath)
	if err != nil {
		http.Error(w, "index.html not found", http.StatusNotFound)
		return
	}

	patched, err := PatchDocument(content, s.title, true)
	if err != nil {
		s.logger.Warn(r.Context(), err, "serving index unpatched")
		patched = content
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(patched)
}
