package touchtime

import (
	"time"

	"github.com/teslashibe/go-touchtime/pkg/haptics"
)

// Vibration vocabulary. Waveforms alternate off/on in milliseconds.
var (
	// Continuous patterns, one per pressed state.
	HourWaveform   = haptics.Millis(0, 100)
	MinuteWaveform = haptics.Millis(40, 40)
	BothWaveform   = haptics.Millis(50, 50, 50, 200)

	// One-shot crossing bursts.
	CrossBothWaveform   = haptics.Millis(0, 40, 40, 40, 40, 40)
	CrossMinuteWaveform = haptics.Millis(0, 40, 40, 40)

	// Face lifecycle cues.
	StartWaveform = haptics.Millis(0, 50, 50, 50)
)

const (
	// CrossHourPulse is the single pulse for an hour crossing.
	CrossHourPulse = 50 * time.Millisecond

	// ConfirmPulse follows every crossing burst.
	ConfirmPulse = 50 * time.Millisecond

	// StopPulse is played when a face goes away.
	StopPulse = 50 * time.Millisecond
)

// continuousCue returns the repeating command for a pressed state.
func continuousCue(p Pattern) (haptics.Command, bool) {
	switch p {
	case PatternHour:
		return haptics.Play(HourWaveform, 0), true
	case PatternMinute:
		return haptics.Play(MinuteWaveform, 0), true
	case PatternBoth:
		return haptics.Play(BothWaveform, 0), true
	default:
		return haptics.Command{}, false
	}
}

// crossingCues returns the one-shot commands for the hands crossed.
func crossingCues(crossed Pattern) []haptics.Command {
	var cmds []haptics.Command
	switch crossed {
	case PatternBoth:
		cmds = append(cmds, haptics.Play(CrossBothWaveform, haptics.NoRepeat))
	case PatternHour:
		cmds = append(cmds, haptics.OneShot(CrossHourPulse))
	case PatternMinute:
		cmds = append(cmds, haptics.Play(CrossMinuteWaveform, haptics.NoRepeat))
	default:
		return nil
	}
	return append(cmds, haptics.OneShot(ConfirmPulse))
}

// StartCue is played when a face comes up.
func StartCue() haptics.Command {
	return haptics.Play(StartWaveform, haptics.NoRepeat)
}

// StopCue is played when a face goes away.
func StopCue() haptics.Command {
	return haptics.OneShot(StopPulse)
}
