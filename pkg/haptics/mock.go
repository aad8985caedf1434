package haptics

import (
	"sync"
	"time"
)

// Mock implements Actuator for testing.
// All methods can be customized via function fields.
type Mock struct {
	// VibrateFunc is called when Vibrate is invoked.
	// If nil, returns nil.
	VibrateFunc func(d time.Duration) error

	// VibratePatternFunc is called when VibratePattern is invoked.
	// If nil, returns nil.
	VibratePatternFunc func(w Waveform, repeat int) error

	// CancelFunc is called when Cancel is invoked.
	// If nil, returns nil.
	CancelFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method  string
	Command Command
	Time    time.Time
}

// NewMock creates a new mock actuator that accepts every call.
func NewMock() *Mock {
	return &Mock{}
}

// Vibrate calls VibrateFunc and records the call.
func (m *Mock) Vibrate(d time.Duration) error {
	m.recordCall("Vibrate", OneShot(d))
	if m.VibrateFunc != nil {
		return m.VibrateFunc(d)
	}
	return nil
}

// VibratePattern calls VibratePatternFunc and records the call.
func (m *Mock) VibratePattern(w Waveform, repeat int) error {
	m.recordCall("VibratePattern", Play(w, repeat))
	if m.VibratePatternFunc != nil {
		return m.VibratePatternFunc(w, repeat)
	}
	return nil
}

// Cancel calls CancelFunc and records the call.
func (m *Mock) Cancel() error {
	m.recordCall("Cancel", Stop())
	if m.CancelFunc != nil {
		return m.CancelFunc()
	}
	return nil
}

// recordCall adds a call to the tracking list.
func (m *Mock) recordCall(method string, cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:  method,
		Command: cmd,
		Time:    time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// Commands returns the recorded calls as commands, in order.
func (m *Mock) Commands() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Command, len(m.calls))
	for i, c := range m.calls {
		result[i] = c.Command
	}
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// LastCall returns the most recent call, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// WithError returns a mock whose every call fails with err.
func WithError(err error) *Mock {
	return &Mock{
		VibrateFunc: func(time.Duration) error {
			return err
		},
		VibratePatternFunc: func(Waveform, int) error {
			return err
		},
		CancelFunc: func() error {
			return err
		},
	}
}

// Verify Mock implements Actuator at compile time.
var _ Actuator = (*Mock)(nil)
