// Package watch serves browser watch faces over WebSocket. Each connection
// is a session with its own touch state; haptic feedback is sent back as
// protocol messages.
package watch

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/teslashibe/go-touchtime/pkg/haptics"
	"github.com/teslashibe/go-touchtime/pkg/protocol"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

// Hub manages WebSocket connections from watch faces
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	clock  touchtime.Clock
	logger *slog.Logger

	// Callbacks
	onOutcome func(sessionID string, out touchtime.Outcome)
	onSession func(sessionID string, open bool)
	intercept func(sessionID string, s touchtime.Sample) bool

	// Stats
	sessionsTotal    atomic.Uint64
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	samples          atomic.Uint64
	patternChanges   atomic.Uint64
	crossings        atomic.Uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock sets the base clock. Faces that report a UTC offset read it in
// their own zone.
func WithClock(c touchtime.Clock) Option {
	return func(h *Hub) {
		h.clock = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates a new face hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		sessions: make(map[string]*Session),
		clock:    touchtime.SystemClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "watch.hub")
	return h
}

// OnOutcome sets the callback for every processed sample
func (h *Hub) OnOutcome(callback func(sessionID string, out touchtime.Outcome)) {
	h.mu.Lock()
	h.onOutcome = callback
	h.mu.Unlock()
}

// OnSession sets the callback for faces connecting and disconnecting
func (h *Hub) OnSession(callback func(sessionID string, open bool)) {
	h.mu.Lock()
	h.onSession = callback
	h.mu.Unlock()
}

// SetIntercept installs a gesture filter consulted before the engine.
// Samples for which it returns true never reach the engine.
func (h *Hub) SetIntercept(intercept func(sessionID string, s touchtime.Sample) bool) {
	h.mu.Lock()
	h.intercept = intercept
	h.mu.Unlock()
}

// RegisterRoutes registers WebSocket routes on a Fiber app
func (h *Hub) RegisterRoutes(app *fiber.App) {
	// WebSocket upgrade middleware
	app.Use("/ws/face", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Face connection endpoint
	app.Get("/ws/face", websocket.New(h.handleFace))
	app.Get("/ws/face/:id", websocket.New(h.handleFace))
}

// handleFace handles a face WebSocket connection
func (h *Hub) handleFace(c *websocket.Conn) {
	// Get session ID from path or generate one
	id := c.Params("id")
	if id == "" {
		id = uuid.NewString()
	}

	sess := &Session{
		ID:        id,
		Conn:      c,
		Connected: time.Now(),
		lastSeen:  time.Now(),
		state:     touchtime.NewState(),
		sent:      &h.messagesSent,
	}
	base := h.clock
	sess.engine = touchtime.NewEngine(
		NewRemoteActuator(sess),
		touchtime.WithClock(touchtime.ClockFunc(func() time.Time { return sess.now(base) })),
		touchtime.WithLogger(h.logger.With("session", id)),
	)

	// Register session
	h.mu.Lock()
	h.sessions[id] = sess
	count := len(h.sessions)
	onSession := h.onSession
	h.mu.Unlock()
	h.sessionsTotal.Add(1)

	h.logger.Info("face connected", "session", id, "total", count)
	if onSession != nil {
		onSession(id, true)
	}

	if msg, err := protocol.NewWelcomeMessage(id); err == nil {
		if err := sess.Send(msg); err != nil {
			h.logger.Warn("welcome failed", "session", id, "error", err)
		}
	}
	if err := sess.engine.Cue(touchtime.StartCue()); err != nil {
		h.logger.Warn("start cue failed", "session", id, "error", err)
	}

	defer func() {
		sess.close()

		h.mu.Lock()
		if h.sessions[id] == sess {
			delete(h.sessions, id)
		}
		count := len(h.sessions)
		onSession := h.onSession
		h.mu.Unlock()

		// The face is gone; the stop cue only reaches the log.
		farewell := haptics.NewLogActuator(h.logger.With("session", id))
		if err := haptics.Apply(farewell, touchtime.StopCue()); err != nil {
			h.logger.Warn("stop cue failed", "session", id, "error", err)
		}

		h.logger.Info("face disconnected", "session", id, "total", count)
		if onSession != nil {
			onSession(id, false)
		}
	}()

	// Read loop
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			h.logger.Debug("face read error", "session", id, "error", err)
			return
		}

		sess.touch()
		h.messagesReceived.Add(1)
		h.handleMessage(sess, data)
	}
}

// handleMessage processes an incoming message from a face
func (h *Hub) handleMessage(sess *Session, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		h.logger.Debug("parse error", "session", sess.ID, "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeHello:
		hello, err := msg.GetHelloData()
		if err != nil {
			h.logger.Debug("bad hello", "session", sess.ID, "error", err)
			return
		}
		if g := hello.Geometry(); g.Valid() {
			sess.setGeometry(g)
		}
		if zone := hello.Zone(); zone != nil {
			sess.zone = zone
		}

	case protocol.TypeTouch:
		touch, err := msg.GetTouchData()
		if err != nil {
			h.logger.Debug("bad touch", "session", sess.ID, "error", err)
			return
		}
		if g, ok := touch.Resize(); ok {
			sess.setGeometry(g)
		}
		h.handleSample(sess, touch.Sample())

	case protocol.TypePing:
		// Respond with pong
		pong, err := protocol.NewPongMessage("", msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return
		}
		if err := sess.Send(pong); err != nil {
			h.logger.Debug("pong send failed", "session", sess.ID, "error", err)
		}
	}
}

// handleSample runs one sample through the session's engine.
func (h *Hub) handleSample(sess *Session, s touchtime.Sample) {
	g := sess.Geometry()
	if !g.Valid() {
		h.logger.Debug("touch before hello", "session", sess.ID)
		return
	}

	h.mu.RLock()
	intercept := h.intercept
	onOutcome := h.onOutcome
	h.mu.RUnlock()

	if intercept != nil && intercept(sess.ID, s) {
		return
	}

	h.samples.Add(1)
	out := sess.engine.Handle(sess.state, s, g)
	if !out.Consumed {
		return
	}

	sess.setPattern(out.Pattern)
	if out.Changed {
		h.patternChanges.Add(1)
	}
	if out.Crossed != touchtime.PatternNone {
		h.crossings.Add(1)
	}

	if msg, err := protocol.NewStateMessage(out); err == nil {
		if err := sess.Send(msg); err != nil {
			h.logger.Debug("state send failed", "session", sess.ID, "error", err)
		}
	}
	if onOutcome != nil {
		onOutcome(sess.ID, out)
	}
}

// Send sends a message to one face
func (h *Hub) Send(sessionID string, msg *protocol.Message) error {
	sess := h.GetSession(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	return sess.Send(msg)
}

// Vibrate buzzes one face once. A face holding a hand is refused, since the
// buzz would silence its continuous pattern.
func (h *Hub) Vibrate(sessionID string, d time.Duration) error {
	sess := h.GetSession(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	if sess.Pattern() != touchtime.PatternNone {
		return ErrFaceBusy
	}
	return NewRemoteActuator(sess).Vibrate(d)
}

// Broadcast sends a message to all connected faces
func (h *Hub) Broadcast(msg *protocol.Message) {
	for _, sess := range h.GetSessions() {
		if err := sess.Send(msg); err != nil {
			h.logger.Debug("broadcast error", "session", sess.ID, "error", err)
		}
	}
}

// GetSession returns a face session by ID
func (h *Hub) GetSession(sessionID string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[sessionID]
}

// GetSessions returns all connected faces
func (h *Hub) GetSessions() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// SessionCount returns the number of connected faces
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stats contains hub statistics
type Stats struct {
	Sessions         int    `json:"sessions"`
	SessionsTotal    uint64 `json:"sessions_total"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	Samples          uint64 `json:"samples"`
	PatternChanges   uint64 `json:"pattern_changes"`
	Crossings        uint64 `json:"crossings"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	return Stats{
		Sessions:         h.SessionCount(),
		SessionsTotal:    h.sessionsTotal.Load(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		Samples:          h.samples.Load(),
		PatternChanges:   h.patternChanges.Load(),
		Crossings:        h.crossings.Load(),
	}
}

// GetSessionInfos returns info about all connected faces
func (h *Hub) GetSessionInfos() []SessionInfo {
	sessions := h.GetSessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	return infos
}

// RegisterAPIRoutes registers API routes for face management
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	faces := api.Group("/faces")

	// List connected faces
	faces.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"faces": h.GetSessionInfos(),
			"count": h.SessionCount(),
		})
	})

	// Get hub stats
	faces.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})

	// Get one face
	faces.Get("/:id", func(c *fiber.Ctx) error {
		sess := h.GetSession(c.Params("id"))
		if sess == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrSessionNotFound.Error()})
		}
		return c.JSON(sess.Info())
	})

	// Buzz a face, e.g. to find the device
	faces.Post("/:id/vibrate", func(c *fiber.Ctx) error {
		var req struct {
			DurationMs int64 `json:"duration_ms"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if req.DurationMs <= 0 {
			req.DurationMs = touchtime.StopPulse.Milliseconds()
		}

		err := h.Vibrate(c.Params("id"), time.Duration(req.DurationMs)*time.Millisecond)
		switch {
		case errors.Is(err, ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrFaceBusy):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "sent"})
	})
}
