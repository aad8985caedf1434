package haptics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingMotor records switch events.
type recordingMotor struct {
	mu     sync.Mutex
	events []string
}

func (m *recordingMotor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "start")
	return nil
}

func (m *recordingMotor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "stop")
	return nil
}

func (m *recordingMotor) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

func (m *recordingMotor) count(event string) int {
	n := 0
	for _, e := range m.snapshot() {
		if e == event {
			n++
		}
	}
	return n
}

func waitIdle(t *testing.T, p *Player, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for p.Playing() {
		if time.Now().After(deadline) {
			t.Fatal("player still playing after timeout")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPlayerOneShot(t *testing.T) {
	motor := &recordingMotor{}
	p := NewPlayer(motor)
	defer p.Close()

	if err := p.Vibrate(20 * time.Millisecond); err != nil {
		t.Fatalf("Vibrate() error = %v", err)
	}
	waitIdle(t, p, time.Second)

	events := motor.snapshot()
	if len(events) != 2 || events[0] != "start" || events[1] != "stop" {
		t.Errorf("events = %v, want [start stop]", events)
	}
}

func TestPlayerLeadingPause(t *testing.T) {
	motor := &recordingMotor{}
	p := NewPlayer(motor)
	defer p.Close()

	p.VibratePattern(Millis(60, 10), NoRepeat)

	time.Sleep(20 * time.Millisecond)
	if n := motor.count("start"); n != 0 {
		t.Errorf("motor started during leading pause (%d starts)", n)
	}

	waitIdle(t, p, time.Second)
	if n := motor.count("start"); n != 1 {
		t.Errorf("got %d starts, want 1", n)
	}
}

func TestPlayerRepeatsUntilCancel(t *testing.T) {
	motor := &recordingMotor{}
	p := NewPlayer(motor)
	defer p.Close()

	if err := p.VibratePattern(Millis(10, 10), 0); err != nil {
		t.Fatalf("VibratePattern() error = %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if !p.Playing() {
		t.Fatal("repeating waveform should still be playing")
	}
	if err := p.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if p.Playing() {
		t.Error("Cancel should halt playback before returning")
	}

	if n := motor.count("start"); n < 2 {
		t.Errorf("got %d starts, want at least 2", n)
	}
	events := motor.snapshot()
	if events[len(events)-1] != "stop" {
		t.Errorf("last event = %s, want stop", events[len(events)-1])
	}
}

func TestPlayerNewCallSupersedes(t *testing.T) {
	motor := &recordingMotor{}
	p := NewPlayer(motor)
	defer p.Close()

	p.VibratePattern(Millis(0, time.Hour.Milliseconds()), NoRepeat)
	time.Sleep(10 * time.Millisecond)
	p.Vibrate(10 * time.Millisecond)
	waitIdle(t, p, time.Second)

	events := motor.snapshot()
	want := []string{"start", "stop", "start", "stop"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestPlayerRejectsInvalid(t *testing.T) {
	p := NewPlayer(&recordingMotor{})
	defer p.Close()

	if err := p.VibratePattern(Millis(0, 0), 0); !errors.Is(err, ErrSilentLoop) {
		t.Errorf("VibratePattern() error = %v, want ErrSilentLoop", err)
	}
}

func TestPlayerClosed(t *testing.T) {
	p := NewPlayer(&recordingMotor{})
	p.Close()

	if err := p.Vibrate(time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Errorf("Vibrate() after Close error = %v, want ErrClosed", err)
	}
	if err := p.Cancel(); !errors.Is(err, ErrClosed) {
		t.Errorf("Cancel() after Close error = %v, want ErrClosed", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestRumbleReport(t *testing.T) {
	on := rumbleReport(3, true)
	if len(on) != rumbleReportLen {
		t.Fatalf("len = %d, want %d", len(on), rumbleReportLen)
	}
	if on[0] != 0x02 || on[1] != 0x53 || on[17] != 0x53 {
		t.Errorf("header = %#x %#x %#x, want 0x02 0x53 0x53", on[0], on[1], on[17])
	}
	for i, b := range rumbleFrame {
		if on[2+i] != b || on[18+i] != b {
			t.Errorf("frame byte %d not mirrored", i)
		}
	}

	off := rumbleReport(3, false)
	if off[1] != 0x50 || off[2] != 0 || off[18] != 0 {
		t.Errorf("neutral report carries rumble data: %v", off[:24])
	}
}
