package model

import (
	"errors"
	"strings"
)

// Fixed interval lengths in seconds.
const (
	WorkDurationSecs  uint32 = 1500
	BreakDurationSecs uint32 = 300
)

// MaxOvertimeSecs caps the reported overtime at 59:59.
const MaxOvertimeSecs uint32 = 3599

// ErrInvalidPhaseName indicates a phase string other than "work" or "break".
var ErrInvalidPhaseName = errors.New("Invalid phase. Use 'work' or 'break'.")

// Phase identifies which interval type is current.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Status is the operational sub-state within a phase.
type Status string

const (
	StatusWorkReady  Status = "workReady"
	StatusBreakReady Status = "breakReady"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused"
	StatusComplete   Status = "complete"
)

// TimerState is an immutable snapshot of the timer.
type TimerState struct {
	Phase          Phase   `json:"phase"`
	Status         Status  `json:"status"`
	RemainingSecs  uint32  `json:"remainingSecs"`
	DurationSecs   uint32  `json:"durationSecs"`
	CompletionFlag bool    `json:"completionFlag"`
	StateLabel     string  `json:"stateLabel"`
	OvertimeSecs   *uint32 `json:"overtimeSecs,omitempty"`
}

// ParsePhase converts a user-supplied phase name, ignoring case. Surrounding
// whitespace is not stripped: " work" is rejected.
func ParsePhase(name string) (Phase, error) {
	switch strings.ToLower(name) {
	case "work":
		return PhaseWork, nil
	case "break":
		return PhaseBreak, nil
	default:
		return "", ErrInvalidPhaseName
	}
}

// DurationSecs returns the fixed length of the phase.
func (phase Phase) DurationSecs() uint32 {
	if phase == PhaseBreak {
		return BreakDurationSecs
	}
	return WorkDurationSecs
}

// ReadyStatus returns the idle status that waits for this phase to start.
func (phase Phase) ReadyStatus() Status {
	if phase == PhaseBreak {
		return StatusBreakReady
	}
	return StatusWorkReady
}

// Other returns the opposite phase.
func (phase Phase) Other() Phase {
	if phase == PhaseBreak {
		return PhaseWork
	}
	return PhaseBreak
}

// Label renders the human-readable description of a phase and status.
func Label(phase Phase, status Status) string {
	switch status {
	case StatusWorkReady:
		return "Ready to work"
	case StatusBreakReady:
		return "Ready to break"
	case StatusPaused:
		return "Paused (" + string(phase) + ")"
	case StatusComplete:
		if phase == PhaseBreak {
			return "Break completed"
		}
		return "Work completed"
	}
	if phase == PhaseBreak {
		return "Break time"
	}
	return "Working"
}
