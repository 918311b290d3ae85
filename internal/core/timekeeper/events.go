package timekeeper

import (
	"time"

	"pomodoro/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventState     EventType = "state"
	EventCompleted EventType = "completed"
	EventIdlePause EventType = "idle_pause"
	EventIdleError EventType = "idle_error"
	EventError     EventType = "error"
)

// Event represents a sampled timer update for observers.
type Event struct {
	Type    EventType
	State   model.TimerState
	Message string
	At      time.Time
}
