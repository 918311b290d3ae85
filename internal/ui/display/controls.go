package display

import (
	"fmt"

	"pomodoro/internal/core/model"
)

// Controls reports which timer actions are available for a status.
type Controls struct {
	Start  bool
	Pause  bool
	Resume bool
	Clear  bool
}

// ControlsFor returns the enabled actions for status.
func ControlsFor(status model.Status) Controls {
	return Controls{
		Start:  status != model.StatusRunning && status != model.StatusPaused,
		Pause:  status == model.StatusRunning,
		Resume: status == model.StatusPaused,
		Clear:  true,
	}
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped at an hour.
func FormatClock(secs uint32) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatOvertime renders the overtime line, or "" when there is none.
func FormatOvertime(state model.TimerState) string {
	if state.OvertimeSecs == nil {
		return ""
	}
	return "+" + FormatClock(*state.OvertimeSecs) + " overtime"
}

// Summary is the one-line status used by the tray and window title.
func Summary(state model.TimerState) string {
	switch state.Status {
	case model.StatusComplete:
		if overtime := FormatOvertime(state); overtime != "" {
			return state.StateLabel + " " + overtime
		}
		return state.StateLabel
	default:
		return fmt.Sprintf("%s %s", state.StateLabel, FormatClock(state.RemainingSecs))
	}
}
