package command

import (
	"errors"
	"fmt"
	"log/slog"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

// Command names accepted by Invoke.
const (
	GetState    = "get_state"
	StartTimer  = "start_timer"
	PauseTimer  = "pause_timer"
	ResumeTimer = "resume_timer"
	ClearTimer  = "clear_timer"
	SetPhase    = "set_phase"
)

// ErrUnknownCommand is returned by Invoke for names outside the command set.
var ErrUnknownCommand = errors.New("unknown command")

// Timer is the core surface the dispatcher drives.
type Timer interface {
	GetState() (model.TimerState, error)
	Start() (model.TimerState, error)
	Pause() (model.TimerState, error)
	Resume() (model.TimerState, error)
	Clear() (model.TimerState, error)
	SetPhase(phase model.Phase) (model.TimerState, error)
}

// Dispatcher translates shell commands into timer operations.
type Dispatcher struct {
	timer  Timer
	logger *slog.Logger
}

// New creates a dispatcher bound to the process-wide timer.
func New(timer Timer, logger *slog.Logger) *Dispatcher {
	if timer == nil {
		panic("command.New: timer is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{timer: timer, logger: logger}
}

// GetState returns the current snapshot.
func (dispatcher *Dispatcher) GetState() (model.TimerState, error) {
	return dispatcher.run(GetState, dispatcher.timer.GetState)
}

// StartTimer starts the current phase.
func (dispatcher *Dispatcher) StartTimer() (model.TimerState, error) {
	return dispatcher.run(StartTimer, dispatcher.timer.Start)
}

// PauseTimer freezes a running countdown.
func (dispatcher *Dispatcher) PauseTimer() (model.TimerState, error) {
	return dispatcher.run(PauseTimer, dispatcher.timer.Pause)
}

// ResumeTimer continues a paused countdown.
func (dispatcher *Dispatcher) ResumeTimer() (model.TimerState, error) {
	return dispatcher.run(ResumeTimer, dispatcher.timer.Resume)
}

// ClearTimer resets the current phase.
func (dispatcher *Dispatcher) ClearTimer() (model.TimerState, error) {
	return dispatcher.run(ClearTimer, dispatcher.timer.Clear)
}

// SetPhase validates name and switches phase. Invalid names never reach the timer.
func (dispatcher *Dispatcher) SetPhase(name string) (model.TimerState, error) {
	phase, err := model.ParsePhase(name)
	if err != nil {
		dispatcher.logger.Info("command rejected", "command", SetPhase, "phase", name, "error", err)
		return model.TimerState{}, err
	}
	return dispatcher.run(SetPhase, func() (model.TimerState, error) {
		return dispatcher.timer.SetPhase(phase)
	})
}

// Invoke dispatches by command name. set_phase reads args["phase"].
func (dispatcher *Dispatcher) Invoke(name string, args map[string]string) (model.TimerState, error) {
	switch name {
	case GetState:
		return dispatcher.GetState()
	case StartTimer:
		return dispatcher.StartTimer()
	case PauseTimer:
		return dispatcher.PauseTimer()
	case ResumeTimer:
		return dispatcher.ResumeTimer()
	case ClearTimer:
		return dispatcher.ClearTimer()
	case SetPhase:
		return dispatcher.SetPhase(args["phase"])
	default:
		return model.TimerState{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

func (dispatcher *Dispatcher) run(name string, operation func() (model.TimerState, error)) (model.TimerState, error) {
	dispatcher.logger.Debug("command", "command", name)
	state, err := operation()
	if err == nil {
		return state, nil
	}
	if errors.Is(err, pomodoro.ErrLockUnavailable) {
		dispatcher.logger.Error("command failed", "command", name, "error", err)
	} else {
		dispatcher.logger.Info("command rejected", "command", name, "error", err)
	}
	return model.TimerState{}, err
}
