package haptics

import "errors"

var (
	// ErrInvalidWaveform is returned when a waveform contains a negative duration.
	ErrInvalidWaveform = errors.New("haptics: invalid waveform")

	// ErrRepeatOutOfRange is returned when the repeat index does not address the waveform.
	ErrRepeatOutOfRange = errors.New("haptics: repeat index out of range")

	// ErrSilentLoop is returned when the looping section has zero total length.
	ErrSilentLoop = errors.New("haptics: looping section has zero length")

	// ErrNoDevice is returned when no rumble-capable controller is attached.
	ErrNoDevice = errors.New("haptics: no device found")

	// ErrClosed is returned when using an actuator after Close.
	ErrClosed = errors.New("haptics: actuator closed")
)
