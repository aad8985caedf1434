// Package haptics provides the vibration actuator capability used by the
// touch engine, plus concrete backends.
//
// Waveforms follow the alternating off/on convention of handset vibrators:
// the first duration is a pause, the second a vibration, and so on. A repeat
// index of -1 plays the waveform once; an index >= 0 loops back to that
// element after the last one.
//
// Example usage:
//
//	player := haptics.NewPlayer(motor)
//	defer player.Close()
//
//	player.VibratePattern(haptics.Millis(0, 100), 0) // 100ms pulse, repeating
//	player.Cancel()
package haptics

import (
	"time"
)

// Actuator is the capability the engine drives.
// Implementations must treat every call as superseding whatever was playing.
type Actuator interface {
	// Vibrate runs the motor once for the given duration.
	Vibrate(d time.Duration) error

	// VibratePattern plays an off/on waveform. repeat is -1 to play once,
	// otherwise the index to loop back to.
	VibratePattern(w Waveform, repeat int) error

	// Cancel stops any ongoing vibration.
	Cancel() error
}

// NoRepeat plays a waveform once.
const NoRepeat = -1

// Waveform is an alternating sequence of off/on durations, starting with off.
type Waveform []time.Duration

// Millis builds a waveform from millisecond values.
func Millis(ms ...int64) Waveform {
	w := make(Waveform, len(ms))
	for i, v := range ms {
		w[i] = time.Duration(v) * time.Millisecond
	}
	return w
}

// Validate checks that the waveform can be played with the given repeat index.
func (w Waveform) Validate(repeat int) error {
	for _, d := range w {
		if d < 0 {
			return ErrInvalidWaveform
		}
	}
	if repeat < NoRepeat || repeat >= len(w) {
		return ErrRepeatOutOfRange
	}
	if repeat >= 0 && w[repeat:].Total() == 0 {
		return ErrSilentLoop
	}
	return nil
}

// Total returns the summed duration of all elements.
func (w Waveform) Total() time.Duration {
	var total time.Duration
	for _, d := range w {
		total += d
	}
	return total
}

// OnTime returns the summed duration of the vibrating elements.
func (w Waveform) OnTime() time.Duration {
	var total time.Duration
	for i := 1; i < len(w); i += 2 {
		total += w[i]
	}
	return total
}

// Ms returns the waveform as integer milliseconds.
func (w Waveform) Ms() []int64 {
	out := make([]int64, len(w))
	for i, d := range w {
		out[i] = d.Milliseconds()
	}
	return out
}

// WebPattern converts the waveform to the browser Vibration API order,
// which starts with a vibration. A zero-length vibration is prepended so the
// leading pause is kept.
func (w Waveform) WebPattern() []int64 {
	if len(w) == 0 {
		return []int64{}
	}
	out := make([]int64, 0, len(w)+1)
	if w[0] > 0 {
		out = append(out, 0, w[0].Milliseconds())
	}
	for _, d := range w[1:] {
		out = append(out, d.Milliseconds())
	}
	return out
}
