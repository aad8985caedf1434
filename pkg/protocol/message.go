// Package protocol defines the WebSocket message types exchanged between a
// browser watch face and the touchtime server.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Face → Server messages
	TypeHello MessageType = "hello" // Surface size and clock offset
	TypeTouch MessageType = "touch" // Pointer sample

	// Server → Face messages
	TypeWelcome MessageType = "welcome" // Session assigned
	TypeVibrate MessageType = "vibrate" // One-shot vibration
	TypePattern MessageType = "pattern" // Waveform vibration
	TypeCancel  MessageType = "cancel"  // Stop vibrating
	TypeState   MessageType = "state"   // Classification after a sample

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Face → Server Message Types
// =============================================================================

// HelloData describes the face when it connects
type HelloData struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	UTCOffsetMin *int    `json:"utc_offset_min,omitempty"` // Minutes east of UTC
}

// TouchData contains one pointer sample in CSS pixels
type TouchData struct {
	Action  string  `json:"action"` // "down", "move", "up"; anything else is ignored
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	History []XY    `json:"history,omitempty"` // Coalesced positions, oldest first
	Width   float64 `json:"width,omitempty"`   // Set when the surface was resized
	Height  float64 `json:"height,omitempty"`
}

// XY is a position encoded as a two element array
type XY [2]float64

// =============================================================================
// Server → Face Message Types
// =============================================================================

// WelcomeData carries the session id
type WelcomeData struct {
	SessionID string `json:"session_id"`
}

// VibrateData is a one-shot vibration
type VibrateData struct {
	DurationMs int64 `json:"duration_ms"`
}

// PatternData is a waveform vibration
type PatternData struct {
	TimingsMs []int64 `json:"timings_ms"` // Off/on, starting with off
	Repeat    int     `json:"repeat"`     // -1 plays once, otherwise loop start index
	Web       []int64 `json:"web"`        // Same waveform for navigator.vibrate (on/off)
}

// StateData reports the classification after a sample
type StateData struct {
	Pattern     string  `json:"pattern"` // "none", "hour", "minute", "both"
	Crossed     string  `json:"crossed,omitempty"`
	HourAngle   float64 `json:"hour_angle"`
	MinuteAngle float64 `json:"minute_angle"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
