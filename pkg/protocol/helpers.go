package protocol

import (
	"time"

	"github.com/teslashibe/go-touchtime/pkg/haptics"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewHelloMessage creates a hello message
func NewHelloMessage(g touchtime.Geometry, utcOffsetMin int) (*Message, error) {
	return NewMessage(TypeHello, HelloData{
		Width:        g.Width,
		Height:       g.Height,
		UTCOffsetMin: &utcOffsetMin,
	})
}

// NewTouchMessage creates a touch message from an engine sample
func NewTouchMessage(s touchtime.Sample) (*Message, error) {
	data := TouchData{
		Action: s.Action.String(),
		X:      s.Position.X,
		Y:      s.Position.Y,
	}
	for _, p := range s.History {
		data.History = append(data.History, XY{p.X, p.Y})
	}
	return NewMessage(TypeTouch, data)
}

// NewWelcomeMessage creates a welcome message
func NewWelcomeMessage(sessionID string) (*Message, error) {
	return NewMessage(TypeWelcome, WelcomeData{SessionID: sessionID})
}

// NewVibrateMessage creates a one-shot vibration message
func NewVibrateMessage(d time.Duration) (*Message, error) {
	return NewMessage(TypeVibrate, VibrateData{DurationMs: d.Milliseconds()})
}

// NewPatternMessage creates a waveform message. The waveform must be valid
// for repeat.
func NewPatternMessage(w haptics.Waveform, repeat int) (*Message, error) {
	if err := w.Validate(repeat); err != nil {
		return nil, err
	}
	return NewMessage(TypePattern, PatternData{
		TimingsMs: w.Ms(),
		Repeat:    repeat,
		Web:       w.WebPattern(),
	})
}

// NewCancelMessage creates a cancel message
func NewCancelMessage() (*Message, error) {
	return NewMessage(TypeCancel, nil)
}

// NewCommandMessage creates the message for one actuator command
func NewCommandMessage(cmd haptics.Command) (*Message, error) {
	switch cmd.Kind {
	case haptics.KindOneShot:
		return NewVibrateMessage(cmd.Duration)
	case haptics.KindWaveform:
		return NewPatternMessage(cmd.Waveform, cmd.Repeat)
	default:
		return NewCancelMessage()
	}
}

// NewStateMessage creates a state message from a processed sample
func NewStateMessage(out touchtime.Outcome) (*Message, error) {
	data := StateData{
		Pattern:     out.Pattern.String(),
		HourAngle:   out.HourAngle,
		MinuteAngle: out.MinuteAngle,
	}
	if out.Crossed != touchtime.PatternNone {
		data.Crossed = out.Crossed.String()
	}
	return NewMessage(TypeState, data)
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetHelloData extracts hello data from a message
func (m *Message) GetHelloData() (*HelloData, error) {
	var data HelloData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Geometry returns the surface size
func (h *HelloData) Geometry() touchtime.Geometry {
	return touchtime.Geometry{Width: h.Width, Height: h.Height}
}

// Zone returns a fixed zone at the reported offset, or nil when the face
// did not report one
func (h *HelloData) Zone() *time.Location {
	if h.UTCOffsetMin == nil {
		return nil
	}
	return time.FixedZone("face", *h.UTCOffsetMin*60)
}

// GetTouchData extracts touch data from a message
func (m *Message) GetTouchData() (*TouchData, error) {
	var data TouchData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Sample converts the touch to an engine sample
func (t *TouchData) Sample() touchtime.Sample {
	s := touchtime.Sample{
		Action:   touchtime.ParseAction(t.Action),
		Position: touchtime.Point{X: t.X, Y: t.Y},
	}
	if len(t.History) > 0 {
		s.History = make([]touchtime.Point, len(t.History))
		for i, p := range t.History {
			s.History[i] = touchtime.Point{X: p[0], Y: p[1]}
		}
	}
	return s
}

// Resize returns the new surface size if the touch carries one
func (t *TouchData) Resize() (touchtime.Geometry, bool) {
	g := touchtime.Geometry{Width: t.Width, Height: t.Height}
	return g, g.Valid()
}

// GetVibrateData extracts vibrate data from a message
func (m *Message) GetVibrateData() (*VibrateData, error) {
	var data VibrateData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPatternData extracts pattern data from a message
func (m *Message) GetPatternData() (*PatternData, error) {
	var data PatternData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Command converts a vibration message back into an actuator command.
// ok is false for message types that carry no command.
func (m *Message) Command() (cmd haptics.Command, ok bool, err error) {
	switch m.Type {
	case TypeVibrate:
		data, err := m.GetVibrateData()
		if err != nil {
			return haptics.Command{}, false, err
		}
		return haptics.OneShot(time.Duration(data.DurationMs) * time.Millisecond), true, nil
	case TypePattern:
		data, err := m.GetPatternData()
		if err != nil {
			return haptics.Command{}, false, err
		}
		return haptics.Play(haptics.Millis(data.TimingsMs...), data.Repeat), true, nil
	case TypeCancel:
		return haptics.Stop(), true, nil
	default:
		return haptics.Command{}, false, nil
	}
}

// GetWelcomeData extracts welcome data from a message
func (m *Message) GetWelcomeData() (*WelcomeData, error) {
	var data WelcomeData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStateData extracts state data from a message
func (m *Message) GetStateData() (*StateData, error) {
	var data StateData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
