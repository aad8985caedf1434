package haptics

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	toneSampleRate = beep.SampleRate(44100)

	// DefaultToneFrequency is low enough to read as a buzz rather than a beep.
	DefaultToneFrequency = 180.0
)

// ToneMotor stands in for a vibration motor on machines without one by
// playing a continuous sine tone through the speaker while switched on.
type ToneMotor struct {
	mu   sync.Mutex
	ctrl *beep.Ctrl
}

// NewToneMotor initializes the speaker and queues a paused tone at freq Hz.
// The speaker is process-wide; only one ToneMotor should exist.
func NewToneMotor(freq float64) (*ToneMotor, error) {
	if freq <= 0 {
		freq = DefaultToneFrequency
	}

	if err := speaker.Init(toneSampleRate, toneSampleRate.N(20*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	sine, err := generators.SineTone(toneSampleRate, freq)
	if err != nil {
		speaker.Close()
		return nil, fmt.Errorf("sine tone: %w", err)
	}

	m := &ToneMotor{
		ctrl: &beep.Ctrl{Streamer: sine, Paused: true},
	}
	speaker.Play(m.ctrl)
	return m, nil
}

// Start unpauses the tone.
func (m *ToneMotor) Start() error {
	return m.setPaused(false)
}

// Stop pauses the tone.
func (m *ToneMotor) Stop() error {
	return m.setPaused(true)
}

func (m *ToneMotor) setPaused(paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return ErrClosed
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// Close silences the tone and releases the speaker.
func (m *ToneMotor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	m.ctrl = nil
	return nil
}

// Verify ToneMotor implements Motor at compile time.
var _ Motor = (*ToneMotor)(nil)
