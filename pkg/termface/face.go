// Package termface draws a watch face in a terminal and feeds mouse drags
// to the touch engine.
//
// Terminal cells are about twice as tall as they are wide, so the engine
// sees a surface of cols x rows*2 units and a cell maps to its centre in
// those units. That keeps the dial round and the angles true.
package termface

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

// DefaultFrameInterval is the redraw and sample flush period.
const DefaultFrameInterval = 16 * time.Millisecond

var (
	styleDial   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTick   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHand   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePress  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Geometry returns the engine surface for a terminal of cols x rows.
func Geometry(cols, rows int) touchtime.Geometry {
	return touchtime.Geometry{Width: float64(cols), Height: float64(rows) * 2}
}

// CellPoint returns the centre of cell (x, y) in engine units.
func CellPoint(x, y int) touchtime.Point {
	return touchtime.Point{X: float64(x) + 0.5, Y: (float64(y) + 0.5) * 2}
}

// Face owns a screen and one pointer's touch state.
type Face struct {
	screen tcell.Screen
	engine *touchtime.Engine
	logger *slog.Logger
	frame  time.Duration

	state     *touchtime.State
	coalescer touchtime.Coalescer

	pressed  bool
	lastCell [2]int
	last     touchtime.Outcome
}

// Option configures a Face.
type Option func(*Face)

// WithFrameInterval sets how often samples are flushed and the dial redrawn.
func WithFrameInterval(d time.Duration) Option {
	return func(f *Face) {
		f.frame = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Face) {
		f.logger = logger
	}
}

// New creates a face on an initialized screen.
func New(screen tcell.Screen, engine *touchtime.Engine, opts ...Option) *Face {
	f := &Face{
		screen: screen,
		engine: engine,
		logger: slog.Default(),
		frame:  DefaultFrameInterval,
		state:  touchtime.NewState(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "termface")
	return f
}

// Geometry returns the engine surface for the current screen size.
func (f *Face) Geometry() touchtime.Geometry {
	cols, rows := f.screen.Size()
	return Geometry(cols, rows)
}

// Pattern returns the active pattern.
func (f *Face) Pattern() touchtime.Pattern {
	return f.state.Active
}

// Run plays the start cue, then handles input and redraws until a quit key
// or ctx is done. The stop cue is played on the way out.
func (f *Face) Run(ctx context.Context) error {
	f.screen.EnableMouse(tcell.MouseDragEvents)
	defer f.screen.DisableMouse()

	if err := f.engine.Cue(touchtime.StartCue()); err != nil {
		f.logger.Warn("start cue failed", "error", err)
	}
	defer func() {
		if err := f.engine.Cue(touchtime.StopCue()); err != nil {
			f.logger.Warn("stop cue failed", "error", err)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	events := f.pollEvents(done, 100)

	ticker := time.NewTicker(f.frame)
	defer ticker.Stop()

	f.Draw()
	for {
		select {
		case <-ctx.Done():
			f.release()
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				f.release()
				return nil
			}
			if f.HandleEvent(ev) {
				f.release()
				return nil
			}

		case <-ticker.C:
			f.Flush()
			f.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed. The returned channel is closed when the goroutine exits.
func (f *Face) pollEvents(done <-chan struct{}, size int) <-chan tcell.Event {
	events := make(chan tcell.Event, size)
	go func() {
		defer close(events)
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// release ends a drag that is still in progress.
func (f *Face) release() {
	if f.pressed {
		f.coalescer.Up(CellPoint(f.lastCell[0], f.lastCell[1]))
		f.pressed = false
	}
	f.Flush()
}

// HandleEvent applies one terminal event. It returns true on a quit key.
func (f *Face) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return isQuit(ev.Key(), ev.Rune())

	case *tcell.EventResize:
		f.screen.Sync()

	case *tcell.EventMouse:
		x, y := ev.Position()
		p := CellPoint(x, y)
		down := ev.Buttons()&tcell.Button1 != 0

		switch {
		case down && !f.pressed:
			f.coalescer.Down(p)
			f.pressed = true
		case down && f.lastCell != [2]int{x, y}:
			f.coalescer.Move(p)
		case !down && f.pressed:
			f.coalescer.Up(p)
			f.pressed = false
		}
		f.lastCell = [2]int{x, y}
	}
	return false
}

func isQuit(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return r == 'q' || r == 'Q'
	}
	return false
}

// Flush runs the coalesced samples through the engine.
func (f *Face) Flush() {
	g := f.Geometry()
	for _, s := range f.coalescer.Flush() {
		f.last = f.engine.Handle(f.state, s, g)
	}
}

// Draw renders the dial, the hands at the engine clock's time and a status
// line.
func (f *Face) Draw() {
	f.screen.Clear()

	cols, rows := f.screen.Size()
	g := Geometry(cols, rows)
	c := g.Center()
	radius := math.Min(g.Width, g.Height)/2 - 1
	if radius < 2 {
		f.screen.Show()
		return
	}

	for i := 0; i < 60; i++ {
		a := float64(i) * 2 * math.Pi / 60
		f.plot(c, a, radius, '·', styleDial)
	}
	for i := 0; i < 12; i++ {
		a := float64(i) * 2 * math.Pi / 12
		f.plot(c, a, radius, '●', styleTick)
	}

	now := f.engine.Clock().Now()
	hour, minute := touchtime.Angles(now)
	active := f.state.Active

	f.hand(c, minute, radius*0.85, '▪', handStyle(active&touchtime.PatternMinute != 0))
	f.hand(c, hour, radius*0.55, '█', handStyle(active&touchtime.PatternHour != 0))
	f.set(c, '◉', styleTick)

	status := fmt.Sprintf(" %s  pattern: %-6s  q to quit ", now.Format("15:04"), active)
	for i, r := range []rune(status) {
		if i >= cols {
			break
		}
		f.screen.SetContent(i, rows-1, r, nil, styleStatus)
	}

	f.screen.Show()
}

func handStyle(pressed bool) tcell.Style {
	if pressed {
		return stylePress
	}
	return styleHand
}

// hand draws a line from the centre along angle.
func (f *Face) hand(c touchtime.Point, angle, length float64, r rune, style tcell.Style) {
	for d := 1.0; d <= length; d += 0.5 {
		f.plot(c, angle, d, r, style)
	}
}

// plot draws r at distance d from c along angle.
func (f *Face) plot(c touchtime.Point, angle, d float64, r rune, style tcell.Style) {
	f.set(touchtime.Point{
		X: c.X + d*math.Sin(angle),
		Y: c.Y - d*math.Cos(angle),
	}, r, style)
}

// set draws r in the cell holding engine point p.
func (f *Face) set(p touchtime.Point, r rune, style tcell.Style) {
	x := int(math.Floor(p.X))
	y := int(math.Floor(p.Y / 2))
	f.screen.SetContent(x, y, r, nil, style)
}
