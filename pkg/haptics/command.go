package haptics

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies an actuator call.
type Kind int

const (
	// KindOneShot is a single vibration of Duration.
	KindOneShot Kind = iota
	// KindWaveform plays Waveform with Repeat.
	KindWaveform
	// KindCancel stops any ongoing vibration.
	KindCancel
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindOneShot:
		return "oneshot"
	case KindWaveform:
		return "waveform"
	case KindCancel:
		return "cancel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is a recorded actuator call.
type Command struct {
	Kind     Kind
	Duration time.Duration
	Waveform Waveform
	Repeat   int
}

// OneShot returns a single vibration command.
func OneShot(d time.Duration) Command {
	return Command{Kind: KindOneShot, Duration: d}
}

// Play returns a waveform command.
func Play(w Waveform, repeat int) Command {
	return Command{Kind: KindWaveform, Waveform: w, Repeat: repeat}
}

// Stop returns a cancel command.
func Stop() Command {
	return Command{Kind: KindCancel}
}

// Repeating reports whether the command starts a continuous pattern.
func (c Command) Repeating() bool {
	return c.Kind == KindWaveform && c.Repeat >= 0
}

// String renders the command for logs.
func (c Command) String() string {
	switch c.Kind {
	case KindOneShot:
		return fmt.Sprintf("oneshot(%s)", c.Duration)
	case KindWaveform:
		return fmt.Sprintf("waveform(%v, repeat=%d)", c.Waveform.Ms(), c.Repeat)
	default:
		return c.Kind.String()
	}
}

// Apply issues the commands to the actuator in order.
// A failing call does not prevent the remaining ones; all failures are
// returned joined.
func Apply(a Actuator, cmds ...Command) error {
	var errs []error
	for _, c := range cmds {
		var err error
		switch c.Kind {
		case KindOneShot:
			err = a.Vibrate(c.Duration)
		case KindWaveform:
			err = a.VibratePattern(c.Waveform, c.Repeat)
		case KindCancel:
			err = a.Cancel()
		default:
			err = fmt.Errorf("haptics: unknown command %s", c.Kind)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
		}
	}
	return errors.Join(errs...)
}
