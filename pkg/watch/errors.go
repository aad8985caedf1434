package watch

import "errors"

var (
	// ErrSessionNotFound is returned when addressing a face that is not connected.
	ErrSessionNotFound = errors.New("watch: session not found")

	// ErrSessionClosed is returned when sending to a face after it disconnected.
	ErrSessionClosed = errors.New("watch: session closed")

	// ErrFaceBusy is returned when buzzing a face while a hand is pressed.
	ErrFaceBusy = errors.New("watch: face is playing a pattern")
)
