package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-touchtime/pkg/hub"
)

// handleHealth reports liveness
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
		"faces":   s.faces.SessionCount(),
	})
}

// handleMetrics exposes face statistics in Prometheus text format
func (s *Server) handleMetrics(c *fiber.Ctx) error {
	stats := s.faces.GetStats()
	return c.SendString(fmt.Sprintf(`# HELP touchtime_faces Connected face count
# TYPE touchtime_faces gauge
touchtime_faces %d

# HELP touchtime_samples Total touch samples processed
# TYPE touchtime_samples counter
touchtime_samples %d

# HELP touchtime_pattern_changes Total haptic pattern changes
# TYPE touchtime_pattern_changes counter
touchtime_pattern_changes %d

# HELP touchtime_crossings Total hand crossings
# TYPE touchtime_crossings counter
touchtime_crossings %d

# HELP touchtime_messages_sent Total messages sent to faces
# TYPE touchtime_messages_sent counter
touchtime_messages_sent %d
`, stats.Sessions, stats.Samples, stats.PatternChanges, stats.Crossings, stats.MessagesSent))
}

// handleStatus returns server and face statistics
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(Status{
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Faces:         s.faces.GetStats(),
		EventClients:  s.events.ClientCount(),
		EventsDropped: s.events.Dropped(),
	})
}

// handleGetEvents returns recent events, optionally filtered by ?kind=
func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	events := s.Recent()
	kind := c.Query("kind")
	if kind == "" {
		return c.JSON(events)
	}

	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return c.JSON(filtered)
}

// handleEventsWS streams events to a dashboard. ?kinds=a,b subscribes to a
// subset.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	var kinds []string
	if q := c.Query("kinds"); q != "" {
		kinds = strings.Split(q, ",")
	}
	hub.NewClient(s.events, c, kinds...).Run()
}
