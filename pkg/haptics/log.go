package haptics

import (
	"log/slog"
	"time"
)

// LogActuator writes every call to a structured logger instead of a motor.
type LogActuator struct {
	logger *slog.Logger
}

// NewLogActuator creates a log-only actuator. A nil logger uses slog.Default().
func NewLogActuator(logger *slog.Logger) *LogActuator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogActuator{logger: logger.With("component", "haptics.log")}
}

// Vibrate logs a one-shot vibration.
func (a *LogActuator) Vibrate(d time.Duration) error {
	a.logger.Info("vibrate", "duration_ms", d.Milliseconds())
	return nil
}

// VibratePattern logs a waveform.
func (a *LogActuator) VibratePattern(w Waveform, repeat int) error {
	if err := w.Validate(repeat); err != nil {
		return err
	}
	a.logger.Info("vibrate pattern", "timings_ms", w.Ms(), "repeat", repeat)
	return nil
}

// Cancel logs a cancel.
func (a *LogActuator) Cancel() error {
	a.logger.Info("cancel vibration")
	return nil
}

// Verify LogActuator implements Actuator at compile time.
var _ Actuator = (*LogActuator)(nil)
