package haptics

import (
	"log/slog"
	"sync"
	"time"
)

// Motor is a device that can be switched on and off.
type Motor interface {
	Start() error
	Stop() error
}

// Player implements Actuator on top of a Motor by timing the waveform itself.
// Only one playback runs at a time; every call halts the previous one before
// returning.
type Player struct {
	motor  Motor
	logger *slog.Logger

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
	closed bool
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithPlayerLogger sets the structured logger for motor errors.
func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// NewPlayer creates a player driving motor.
func NewPlayer(motor Motor, opts ...PlayerOption) *Player {
	p := &Player{
		motor:  motor,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "haptics.player")
	return p
}

// Vibrate runs the motor once for d.
func (p *Player) Vibrate(d time.Duration) error {
	return p.VibratePattern(Waveform{0, d}, NoRepeat)
}

// VibratePattern plays w, looping from repeat when repeat >= 0.
func (p *Player) VibratePattern(w Waveform, repeat int) error {
	if err := w.Validate(repeat); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.haltLocked()

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	p.stopCh = stopCh
	p.doneCh = doneCh

	// Copy so callers may reuse their slice.
	steps := make(Waveform, len(w))
	copy(steps, w)

	go p.run(steps, repeat, stopCh, doneCh)
	return nil
}

// Cancel stops any ongoing playback.
func (p *Player) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.haltLocked()
	return nil
}

// Playing reports whether a waveform is currently being played.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doneCh == nil {
		return false
	}
	select {
	case <-p.doneCh:
		return false
	default:
		return true
	}
}

// Close halts playback and rejects further calls.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.haltLocked()
	p.closed = true
	return nil
}

// haltLocked stops the running playback and waits for the motor to be off.
func (p *Player) haltLocked() {
	if p.stopCh == nil {
		return
	}
	close(p.stopCh)
	<-p.doneCh
	p.stopCh = nil
	p.doneCh = nil
}

// run steps through the waveform until it ends or stopCh is closed.
func (p *Player) run(w Waveform, repeat int, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	on := false
	defer func() {
		if on {
			p.switchMotor(false)
		}
	}()

	for i := 0; ; i++ {
		if i >= len(w) {
			if repeat < 0 {
				return
			}
			i = repeat
		}

		want := i%2 == 1
		if w[i] == 0 {
			continue
		}
		if want != on {
			p.switchMotor(want)
			on = want
		}

		timer := time.NewTimer(w[i])
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (p *Player) switchMotor(on bool) {
	var err error
	if on {
		err = p.motor.Start()
	} else {
		err = p.motor.Stop()
	}
	if err != nil {
		p.logger.Warn("motor switch failed", "on", on, "error", err)
	}
}

// Verify Player implements Actuator at compile time.
var _ Actuator = (*Player)(nil)
