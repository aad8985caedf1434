// Package touchtime turns pointer samples on an analog watch face into
// haptic feedback, so the time can be read by touch.
//
// A sample pressing the hour or minute hand starts a continuous pattern that
// runs until the classification changes. Dragging across a hand without
// stopping on it plays a short one-shot burst. Patterns are edge-triggered:
// the actuator only hears about changes.
//
// Process is the pure form and returns the commands; Engine applies them to
// an actuator.
package touchtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-touchtime/pkg/haptics"
)

// Action is the pointer action of a sample.
type Action int

const (
	ActionDown Action = iota
	ActionMove
	ActionUp
	// ActionCancel and any other value are ignored by the engine.
	ActionCancel
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps a wire name to an Action. Unknown names map to ActionCancel.
func ParseAction(name string) Action {
	switch name {
	case "down":
		return ActionDown
	case "move":
		return ActionMove
	case "up":
		return ActionUp
	default:
		return ActionCancel
	}
}

// Sample is one pointer event.
type Sample struct {
	Action   Action
	Position Point
	// History holds the intermediate positions since the previous sample,
	// oldest first. The Coalescer and the browser face both end it with
	// Position itself, so Crossed also tests the final segment into the
	// current point.
	History []Point
}

// Pattern is the set of hands under the pointer.
type Pattern uint8

const (
	PatternNone   Pattern = 0
	PatternHour   Pattern = 1
	PatternMinute Pattern = 2
	PatternBoth           = PatternHour | PatternMinute
)

// String returns the pattern name.
func (p Pattern) String() string {
	switch p {
	case PatternNone:
		return "none"
	case PatternHour:
		return "hour"
	case PatternMinute:
		return "minute"
	case PatternBoth:
		return "both"
	default:
		return fmt.Sprintf("pattern(%d)", uint8(p))
	}
}

// State is what survives between samples for one pointer.
type State struct {
	// Last is the previous sample position, valid when HasLast is set.
	Last    Point
	HasLast bool

	// Active is the pattern currently playing.
	Active Pattern
}

// NewState returns the idle state: no position, no pattern.
func NewState() *State {
	return &State{}
}

// Reset returns the state to idle without touching any actuator.
func (s *State) Reset() {
	*s = State{}
}

// Outcome summarizes one processed sample.
type Outcome struct {
	// Consumed is false for actions the engine ignores.
	Consumed bool

	// Previous and Pattern are the active pattern before and after.
	Previous Pattern
	Pattern  Pattern
	Changed  bool

	// Crossed holds the hands swept across on a move with nothing pressed.
	Crossed Pattern

	HourAngle   float64
	MinuteAngle float64

	// Commands are the actuator calls, in the order they must be issued.
	Commands []haptics.Command
}

// Process classifies s against the hands at now, updates st and returns the
// actuator commands. It has no other side effects.
func Process(st *State, s Sample, now time.Time, g Geometry) Outcome {
	switch s.Action {
	case ActionUp:
		out := Outcome{Consumed: true, Previous: st.Active}
		if st.Active != PatternNone {
			out.Commands = append(out.Commands, haptics.Stop())
			out.Changed = true
		}
		st.Reset()
		return out
	case ActionDown, ActionMove:
	default:
		return Outcome{Previous: st.Active, Pattern: st.Active}
	}

	center := g.Center()
	hourAngle, minuteAngle := Angles(now)
	out := Outcome{
		Consumed:    true,
		Previous:    st.Active,
		HourAngle:   hourAngle,
		MinuteAngle: minuteAngle,
	}

	pattern := PatternNone
	if IsPressing(s.Position, center, hourAngle) {
		pattern |= PatternHour
	}
	if IsPressing(s.Position, center, minuteAngle) {
		pattern |= PatternMinute
	}

	// Crossing cues only play while nothing is pressed.
	if pattern == PatternNone && s.Action == ActionMove {
		if Crossed(s.History, st.Last, st.HasLast, center, hourAngle) {
			out.Crossed |= PatternHour
		}
		if Crossed(s.History, st.Last, st.HasLast, center, minuteAngle) {
			out.Crossed |= PatternMinute
		}
		out.Commands = append(out.Commands, crossingCues(out.Crossed)...)
	}

	if pattern != st.Active {
		out.Commands = append(out.Commands, haptics.Stop())
		if cmd, ok := continuousCue(pattern); ok {
			out.Commands = append(out.Commands, cmd)
		}
		st.Active = pattern
		out.Changed = true
	}

	out.Pattern = st.Active
	st.Last = s.Position
	st.HasLast = true
	return out
}

// Engine applies processed samples to an actuator.
type Engine struct {
	actuator haptics.Actuator
	clock    Clock
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. The default is the local system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine driving actuator.
func NewEngine(actuator haptics.Actuator, opts ...Option) *Engine {
	e := &Engine{
		actuator: actuator,
		clock:    SystemClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "touchtime.engine")
	return e
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock {
	return e.clock
}

// Handle processes one sample and issues its commands before returning.
// Actuator failures are logged; they do not affect the state.
func (e *Engine) Handle(st *State, s Sample, g Geometry) Outcome {
	out := Process(st, s, e.clock.Now(), g)
	if !out.Consumed {
		return out
	}

	if err := haptics.Apply(e.actuator, out.Commands...); err != nil {
		e.logger.Warn("actuator call failed", "action", s.Action, "error", err)
	}

	if out.Changed {
		e.logger.Debug("pattern changed", "from", out.Previous, "to", out.Pattern)
	}
	if out.Crossed != PatternNone {
		e.logger.Debug("hand crossed", "hands", out.Crossed)
	}
	return out
}

// Cue issues lifecycle commands such as StartCue and StopCue.
func (e *Engine) Cue(cmds ...haptics.Command) error {
	return haptics.Apply(e.actuator, cmds...)
}
