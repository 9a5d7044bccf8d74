// Package preview serves the rendered diagram to a browser page that hosts
// it in an svg-pan-zoom viewport. Frames are pushed over a websocket.
package preview

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

//go:embed static/*
var staticFS embed.FS

// ErrClosed is returned by Attach after Shutdown.
var ErrClosed = errors.New("preview: server closed")

// Frame types pushed to the page.
const (
	FrameRender = "render"
	FrameClear  = "clear"
	FrameError  = "error"
)

// Frame is one websocket message.
type Frame struct {
	Type     string `json:"type"`
	Revision uint64 `json:"revision"`
	SVG      string `json:"svg,omitempty"`
	Error    string `json:"error,omitempty"`
	// Download reports whether /download has something to serve.
	Download bool   `json:"download"`
}

// Artifact is the downloadable diagram source.
type Artifact struct {
	Name      string
	MediaType string
	Body      []byte
}

// ArtifactSource supplies the current download, if any.
type ArtifactSource interface {
	Artifact() (Artifact, bool)
}

// Controller is the page's hold on one attached diagram.
type Controller interface {
	Release()
}

// Options configures a Server.
type Options struct {
	AllowedOrigins []string // CORS origins; defaults to localhost
}

// Server is the preview HTTP + WebSocket server.
type Server struct {
	router   chi.Router
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*wsClient
	latest  *Frame
	source  ArtifactSource
	closed  bool

	httpServer *http.Server
	url        string
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// New creates a preview server. Call Start to listen, or mount Handler.
func New(opts Options) *Server {
	s := &Server{
		clients: make(map[string]*wsClient),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.buildRouter(opts)
	return s
}

func (s *Server) buildRouter(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ws", s.handleWebSocket)
	r.Get("/download", s.handleDownload)
	r.Get("/", s.handleIndex)

	return r
}

// requestLogger logs each request through zerolog; stdout belongs to the TUI.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("preview request")
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// SetSource sets where /download reads from.
func (s *Server) SetSource(src ArtifactSource) {
	s.mu.Lock()
	s.source = src
	s.mu.Unlock()
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("preview listen: %w", err)
	}
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.url = "http://" + ln.Addr().String()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("preview server stopped")
		}
	}()
	log.Info().Str("url", s.url).Msg("preview server listening")
	return nil
}

// URL returns the address the server listens on, or "" before Start.
func (s *Server) URL() string { return s.url }

// Shutdown closes all clients and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	clients := s.snapshot()
	s.clients = make(map[string]*wsClient)
	s.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ---------------------------------------------------------------------------
// Controllers
// ---------------------------------------------------------------------------

type attachment struct {
	s        *Server
	revision uint64
	once     sync.Once
}

// Attach pushes svg to every page and returns the controller that owns it.
// Releasing the controller clears the page.
func (s *Server) Attach(revision uint64, svg string) (Controller, error) {
	f := Frame{Type: FrameRender, Revision: revision, SVG: svg}
	if err := s.publish(f); err != nil {
		return nil, err
	}
	return &attachment{s: s, revision: revision}, nil
}

func (a *attachment) Release() {
	a.once.Do(func() {
		a.s.mu.Lock()
		if a.s.latest != nil && a.s.latest.Type == FrameRender && a.s.latest.Revision == a.revision {
			a.s.latest = nil
		}
		a.s.mu.Unlock()
		a.s.broadcast(Frame{Type: FrameClear, Revision: a.revision})
	})
}

// Fail shows a render error on every page.
func (s *Server) Fail(revision uint64, msg string) {
	if err := s.publish(Frame{Type: FrameError, Revision: revision, Error: msg}); err != nil {
		log.Debug().Err(err).Msg("preview error frame dropped")
	}
}

// Clear empties every page and forgets the latest frame, so pages that
// connect later start empty too.
func (s *Server) Clear(revision uint64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.latest = nil
	s.mu.Unlock()
	s.broadcast(Frame{Type: FrameClear, Revision: revision})
}

// publish records f as the latest frame and broadcasts it.
func (s *Server) publish(f Frame) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.latest = &f
	s.mu.Unlock()
	s.broadcast(f)
	return nil
}

func (s *Server) broadcast(f Frame) {
	f.Download = s.downloadable()
	data, err := json.Marshal(f)
	if err != nil {
		log.Warn().Err(err).Msg("preview: marshal frame")
		return
	}
	s.mu.Lock()
	clients := s.snapshot()
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("preview: dropping client")
			s.remove(c)
		}
	}
}

// downloadable asks the source for an artifact. It must not be called with
// mu held: the source may take its own lock.
func (s *Server) downloadable() bool {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()
	if src == nil {
		return false
	}
	_, ok := src.Artifact()
	return ok
}

func (s *Server) snapshot() []*wsClient {
	out := make([]*wsClient, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

func (s *Server) remove(c *wsClient) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	c.conn.Close()
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("preview: websocket upgrade")
		return
	}
	client := &wsClient{id: uuid.NewString(), conn: conn}
	download := s.downloadable()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[client.id] = client
	latest := s.latest
	client.mu.Lock()
	s.mu.Unlock()
	if latest != nil {
		f := *latest
		f.Download = download
		data, _ := json.Marshal(f)
		conn.WriteMessage(websocket.TextMessage, data)
	}
	client.mu.Unlock()
	log.Debug().Str("client", client.id).Msg("preview client connected")

	defer s.remove(client)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("client", client.id).Msg("preview: websocket read")
			}
			return
		}
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()

	if src == nil {
		http.Error(w, "nothing to download", http.StatusNotFound)
		return
	}
	a, ok := src.Artifact()
	if !ok {
		http.Error(w, "nothing to download", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", a.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(a.Body)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		http.Error(w, "static files unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
