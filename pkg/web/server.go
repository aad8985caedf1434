// Package web serves the browser watch face, its session endpoints and a
// live event feed for dashboards.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-touchtime/pkg/hub"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
	"github.com/teslashibe/go-touchtime/pkg/watch"
)

// maxEvents is the number of recent events kept for /api/events.
const maxEvents = 500

// Event kinds
const (
	EventSession  = "session"
	EventPattern  = "pattern"
	EventCrossing = "crossing"
)

// Event is one entry of the live feed
type Event struct {
	Time    time.Time `json:"time"`
	Kind    string    `json:"kind"`
	Session string    `json:"session"`
	Open    *bool     `json:"open,omitempty"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	Crossed string    `json:"crossed,omitempty"`
}

// Status is returned by /api/status
type Status struct {
	Uptime        string      `json:"uptime"`
	Faces         watch.Stats `json:"faces"`
	EventClients  int         `json:"event_clients"`
	EventsDropped uint64      `json:"events_dropped"`
}

// Server is the touchtime web server
type Server struct {
	app        *fiber.App
	addr       string
	staticDir  string
	version    string
	requestLog bool
	logger     *slog.Logger
	started    time.Time

	faces  *watch.Hub
	events *hub.Hub

	// Event buffer (last maxEvents entries)
	recent   []Event
	recentMu sync.RWMutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. The default is ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithStaticDir sets the directory holding the watch face page.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithRequestLog enables per-request access logging.
func WithRequestLog(enabled bool) Option {
	return func(s *Server) {
		s.requestLog = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for faces and wires its callbacks into the
// event feed.
func NewServer(faces *watch.Hub, opts ...Option) *Server {
	s := &Server{
		addr:      ":8080",
		staticDir: "./web",
		version:   "dev",
		logger:    slog.Default(),
		started:   time.Now(),
		faces:     faces,
		recent:    make([]Event, 0, maxEvents),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = hub.New("events", hub.WithLogger(s.logger))
	s.logger = s.logger.With("component", "web.server")

	faces.OnSession(s.recordSession)
	faces.OnOutcome(s.recordOutcome)

	app := fiber.New(fiber.Config{
		AppName:               "touchtime",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())
	if s.requestLog {
		app.Use(logger.New())
	}

	app.Get("/health", s.handleHealth)
	app.Get("/metrics", s.handleMetrics)

	// Watch face page
	app.Static("/", s.staticDir)

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/events", s.handleGetEvents)
	faces.RegisterAPIRoutes(api)

	// Face sessions
	faces.RegisterRoutes(app)

	// WebSocket upgrade middleware
	app.Use("/ws/events", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the event hub and serves until the listener fails or ctx is
// done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("serving watch face", "addr", s.addr, "static", s.staticDir)

	go s.events.Run(ctx)
	go func() {
		<-ctx.Done()
		s.app.Shutdown()
	}()

	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Events returns the event hub for external use
func (s *Server) Events() *hub.Hub {
	return s.events
}

// Recent returns the buffered events, oldest first.
func (s *Server) Recent() []Event {
	s.recentMu.RLock()
	defer s.recentMu.RUnlock()
	out := make([]Event, len(s.recent))
	copy(out, s.recent)
	return out
}

// AddEvent buffers an event and broadcasts it to dashboards
func (s *Server) AddEvent(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.recentMu.Lock()
	s.recent = append(s.recent, e)
	if len(s.recent) > maxEvents {
		s.recent = s.recent[1:]
	}
	s.recentMu.Unlock()

	if err := s.events.BroadcastJSON(e.Kind, e); err != nil {
		s.logger.Warn("event broadcast failed", "kind", e.Kind, "error", err)
	}
}

func (s *Server) recordSession(sessionID string, open bool) {
	s.AddEvent(Event{Kind: EventSession, Session: sessionID, Open: &open})
}

func (s *Server) recordOutcome(sessionID string, out touchtime.Outcome) {
	if out.Crossed != touchtime.PatternNone {
		s.AddEvent(Event{Kind: EventCrossing, Session: sessionID, Crossed: out.Crossed.String()})
	}
	if out.Changed {
		s.AddEvent(Event{
			Kind:    EventPattern,
			Session: sessionID,
			From:    out.Previous.String(),
			To:      out.Pattern.String(),
		})
	}
}
