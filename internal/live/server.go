// Package live hosts the interactive widgets of a page on the server. Each browser
// tab opens one websocket; its events run on a single loop together with every timer
// of the mounted widgets, and state changes are pushed back as small JSON messages.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/observability"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/splash"
	"snix.ai/snix-web/internal/timer"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 16 << 10
	outboxSize     = 256
)

// ErrTooManySessions is returned when the live session cap is reached.
var ErrTooManySessions = errors.New("live: too many sessions")

// CatalogSource yields the current site catalog. *content.Store implements it.
type CatalogSource interface {
	Catalog(ctx context.Context) (*content.Catalog, error)
}

// Options configures a Server. Zero fields take defaults.
type Options struct {
	Clock          timer.Clock
	Catalog        CatalogSource
	Renderer       Renderer
	Submitter      contact.Submitter
	ContactDisplay time.Duration
	Splash         splash.Config
	MaxSessions    int
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// Server upgrades requests to live sessions and keeps track of them.
type Server struct {
	clock     timer.Clock
	catalog   CatalogSource
	renderer  Renderer
	submitter contact.Submitter
	display   time.Duration
	splash    splash.Config
	max       int
	origins   map[string]struct{}
	logger    *zap.Logger
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewServer builds a live server. Catalog is required.
func NewServer(opts Options) *Server {
	srv := &Server{
		clock:     opts.Clock,
		catalog:   opts.Catalog,
		renderer:  opts.Renderer,
		submitter: opts.Submitter,
		display:   opts.ContactDisplay,
		splash:    opts.Splash,
		max:       opts.MaxSessions,
		origins:   map[string]struct{}{},
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		sessions:  map[string]*Session{},
	}
	if srv.clock == nil {
		srv.clock = timer.Real()
	}
	if srv.renderer == nil {
		srv.renderer = RendererFunc(func(context.Context, View) (string, error) { return "", nil })
	}
	if srv.submitter == nil {
		srv.submitter = &contact.Simulated{Clock: srv.clock, Delay: contact.DefaultSimulatedDelay}
	}
	if srv.display <= 0 {
		srv.display = contact.DefaultDisplay
	}
	if srv.max <= 0 {
		srv.max = 256
	}
	if srv.logger == nil {
		srv.logger = zap.NewNop()
	}
	if srv.metrics == nil {
		srv.metrics = observability.NewMetrics()
	}
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			srv.origins[strings.ToLower(o)] = struct{}{}
		}
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     srv.checkOrigin,
	}
	return srv
}

// checkOrigin accepts the configured origins, or the request's own host when none are set.
func (srv *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(srv.origins) > 0 {
		_, ok := srv.origins[strings.ToLower(strings.TrimRight(origin, "/"))]
		return ok
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Len returns the number of open sessions.
func (srv *Server) Len() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.sessions)
}

// Close ends every open session.
func (srv *Server) Close() {
	srv.mu.RLock()
	open := make([]*Session, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		open = append(open, s)
	}
	srv.mu.RUnlock()
	for _, s := range open {
		s.close()
	}
}

// Open registers a new session. The caller runs its loop and feeds it events;
// ServeHTTP does both over a websocket.
func (srv *Server) Open(ctx context.Context) (*Session, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.sessions) >= srv.max {
		return nil, ErrTooManySessions
	}
	id := ulid.Make().String()
	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:       id,
		srv:      srv,
		loop:     timer.NewLoop(),
		out:      make(chan Message, outboxSize),
		ctx:      sctx,
		cancel:   cancel,
		logger:   srv.logger.With(zap.String("session_id", id)),
		switcher: pages.NewSwitcher(),
	}
	s.nav = s.switcher
	s.switcher.OnChange(s.navigated)
	srv.sessions[id] = s
	srv.metrics.LiveSessions.Inc()
	return s, nil
}

func (srv *Server) remove(s *Session) {
	srv.mu.Lock()
	_, ok := srv.sessions[s.ID]
	delete(srv.sessions, s.ID)
	srv.mu.Unlock()
	if ok {
		srv.metrics.LiveSessions.Dec()
	}
}

// ServeHTTP upgrades the request and runs the session until the client goes away.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := srv.Open(context.WithoutCancel(r.Context()))
	if err != nil {
		srv.logger.Warn("live session rejected", zap.Error(err))
		http.Error(w, "live updates are at capacity, please retry shortly", http.StatusServiceUnavailable)
		return
	}
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the request
		s.logger.Debug("live upgrade failed", zap.Error(err))
		s.close()
		return
	}
	s.serve(conn)
}

func (s *Session) serve(conn *websocket.Conn) {
	_, span := observability.StartSpan(s.ctx, "live.session", attribute.String("live.session_id", s.ID))
	defer func() {
		s.close()
		observability.EndSpan(span, nil)
	}()
	s.logger.Info("live session opened")

	go s.loop.Run(s.ctx)
	go s.writer(conn)
	s.reader(conn)
	s.logger.Info("live session closed")
}

func (s *Session) reader(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("live read failed", zap.Error(err))
			}
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
			s.loop.Dispatch(func() { s.fail(CodeBadEvent, "malformed event") })
			continue
		}
		s.Deliver(ev)
	}
}

func (s *Session) writer(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg := <-s.out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("live write failed", zap.Error(err))
				s.cancel()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		case <-s.ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
