package watch

import (
	"time"

	"github.com/teslashibe/go-touchtime/pkg/haptics"
	"github.com/teslashibe/go-touchtime/pkg/protocol"
)

// Sender delivers a message to one face.
type Sender interface {
	Send(msg *protocol.Message) error
}

// RemoteActuator forwards haptic calls to a browser face, which plays them
// with the Vibration API.
type RemoteActuator struct {
	sender Sender
}

// NewRemoteActuator creates an actuator writing to sender.
func NewRemoteActuator(sender Sender) *RemoteActuator {
	return &RemoteActuator{sender: sender}
}

// Vibrate sends a one-shot vibration.
func (a *RemoteActuator) Vibrate(d time.Duration) error {
	return a.send(haptics.OneShot(d))
}

// VibratePattern sends a waveform. Invalid waveforms are rejected locally.
func (a *RemoteActuator) VibratePattern(w haptics.Waveform, repeat int) error {
	return a.send(haptics.Play(w, repeat))
}

// Cancel tells the face to stop vibrating.
func (a *RemoteActuator) Cancel() error {
	return a.send(haptics.Stop())
}

func (a *RemoteActuator) send(cmd haptics.Command) error {
	msg, err := protocol.NewCommandMessage(cmd)
	if err != nil {
		return err
	}
	return a.sender.Send(msg)
}

// Verify RemoteActuator implements Actuator at compile time.
var _ haptics.Actuator = (*RemoteActuator)(nil)
