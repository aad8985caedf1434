package termface

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/teslashibe/go-touchtime/pkg/haptics"
	"github.com/teslashibe/go-touchtime/pkg/touchtime"
)

func newFace(t *testing.T) (*Face, *haptics.Mock) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)

	mock := haptics.NewMock()
	clock := touchtime.FixedClock{T: time.Date(2026, time.March, 14, 3, 0, 0, 0, time.UTC)}
	engine := touchtime.NewEngine(mock, touchtime.WithClock(clock))
	return New(screen, engine), mock
}

func mouse(x, y int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, buttons, tcell.ModNone)
}

func TestGeometry(t *testing.T) {
	g := Geometry(80, 24)
	if g.Width != 80 || g.Height != 48 {
		t.Errorf("Geometry() = %+v, want 80x48", g)
	}
	if p := CellPoint(0, 0); p != (touchtime.Point{X: 0.5, Y: 1}) {
		t.Errorf("CellPoint(0, 0) = %+v", p)
	}
	if p := CellPoint(39, 19); p != (touchtime.Point{X: 39.5, Y: 39}) {
		t.Errorf("CellPoint(39, 19) = %+v", p)
	}
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want bool
	}{
		{"escape", tcell.KeyEscape, 0, true},
		{"ctrl-c", tcell.KeyCtrlC, 0, true},
		{"q", tcell.KeyRune, 'q', true},
		{"Q", tcell.KeyRune, 'Q', true},
		{"other rune", tcell.KeyRune, 'x', false},
		{"enter", tcell.KeyEnter, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuit(tt.key, tt.r); got != tt.want {
				t.Errorf("isQuit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPressHourHand(t *testing.T) {
	f, mock := newFace(t)

	// Cell (35, 9) is at three o'clock on a 40x20 terminal.
	f.HandleEvent(mouse(35, 9, tcell.Button1))
	f.HandleEvent(mouse(35, 9, tcell.Button1))
	f.Flush()

	if f.Pattern() != touchtime.PatternHour {
		t.Fatalf("pattern = %v, want hour", f.Pattern())
	}
	want := []haptics.Command{haptics.Stop(), haptics.Play(touchtime.HourWaveform, 0)}
	if got := mock.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}

	f.HandleEvent(mouse(35, 9, tcell.ButtonNone))
	f.Flush()
	if f.Pattern() != touchtime.PatternNone {
		t.Errorf("pattern after release = %v, want none", f.Pattern())
	}
	if last := mock.LastCall(); last == nil || last.Method != "Cancel" {
		t.Errorf("last call = %+v, want Cancel", last)
	}
}

func TestDragAcrossMinuteHand(t *testing.T) {
	f, mock := newFace(t)

	f.HandleEvent(mouse(17, 3, tcell.Button1))
	f.HandleEvent(mouse(18, 3, tcell.Button1))
	f.HandleEvent(mouse(23, 3, tcell.Button1))
	f.Flush()

	want := []haptics.Command{
		haptics.Play(touchtime.CrossMinuteWaveform, haptics.NoRepeat),
		haptics.OneShot(touchtime.ConfirmPulse),
	}
	if got := mock.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
	if f.last.Crossed != touchtime.PatternMinute {
		t.Errorf("crossed = %v, want minute", f.last.Crossed)
	}
}

func TestDraw(t *testing.T) {
	f, _ := newFace(t)
	f.HandleEvent(mouse(35, 9, tcell.Button1))
	f.Flush()
	f.Draw()

	screen := f.screen
	if r, _, _, _ := screen.GetContent(20, 10); r != '◉' {
		t.Errorf("centre = %q, want hub", r)
	}
	// Hour hand at three o'clock, highlighted while pressed.
	r, _, style, _ := screen.GetContent(25, 10)
	if r != '█' || style != stylePress {
		t.Errorf("hour hand cell = %q %v, want pressed hand", r, style)
	}
	// Minute hand at twelve.
	if r, _, _, _ := screen.GetContent(20, 5); r != '▪' {
		t.Errorf("minute hand cell = %q", r)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f, mock := newFace(t)
	f.frame = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}

	cmds := mock.Commands()
	if len(cmds) < 2 {
		t.Fatalf("commands = %v, want start and stop cues", cmds)
	}
	if !reflect.DeepEqual(cmds[0], touchtime.StartCue()) {
		t.Errorf("first command = %v, want start cue", cmds[0])
	}
	if !reflect.DeepEqual(cmds[len(cmds)-1], touchtime.StopCue()) {
		t.Errorf("last command = %v, want stop cue", cmds[len(cmds)-1])
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	f, _ := newFace(t)

	done := make(chan struct{})
	events := f.pollEvents(done, 0)
	close(done)

	// Nobody reads events; the pending send must give way to done.
	if err := f.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatalf("PostEvent() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	select {
	case _, ok := <-events:
		if ok {
			t.Error("event delivered after done was closed")
		}
	case <-time.After(time.Second):
		t.Fatal("poll goroutine did not exit")
	}
}
