package watch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/teslashibe/go-touchtime/pkg/protocol"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

// Session is one connected watch face.
type Session struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time

	// Owned by the read loop.
	state  *touchtime.State
	engine *touchtime.Engine
	zone   *time.Location

	mu       sync.Mutex
	lastSeen time.Time
	geometry touchtime.Geometry
	pattern  touchtime.Pattern
	closed   bool

	sent *atomic.Uint64
}

// Send sends a message to the face.
func (s *Session) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.sent != nil {
		s.sent.Add(1)
	}
	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

// Geometry returns the last reported surface size.
func (s *Session) Geometry() touchtime.Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

// Pattern returns the active pattern.
func (s *Session) Pattern() touchtime.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pattern
}

// Info returns a snapshot for the API.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:        s.ID,
		Connected: s.Connected,
		LastSeen:  s.lastSeen,
		Pattern:   s.pattern.String(),
		Width:     s.geometry.Width,
		Height:    s.geometry.Height,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) setGeometry(g touchtime.Geometry) {
	s.mu.Lock()
	s.geometry = g
	s.mu.Unlock()
}

func (s *Session) setPattern(p touchtime.Pattern) {
	s.mu.Lock()
	s.pattern = p
	s.mu.Unlock()
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// now reads the base clock in the face's reported zone.
func (s *Session) now(base touchtime.Clock) time.Time {
	t := base.Now()
	if s.zone != nil {
		return t.In(s.zone)
	}
	return t
}

// SessionInfo contains info about a connected face
type SessionInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Pattern   string    `json:"pattern"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
}
