package main

import (
	"pomodoro/internal/command"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"
)

// observedCommands routes control API calls through the timekeeper so the
// UI sees each change at once and completions are never missed.
type observedCommands struct {
	dispatcher *command.Dispatcher
	keeper     *timekeeper.TimeKeeper
}

func (commands observedCommands) GetState() (model.TimerState, error) {
	return commands.keeper.Apply(commands.dispatcher.GetState)
}

func (commands observedCommands) StartTimer() (model.TimerState, error) {
	return commands.keeper.Apply(commands.dispatcher.StartTimer)
}

func (commands observedCommands) PauseTimer() (model.TimerState, error) {
	return commands.keeper.Apply(commands.dispatcher.PauseTimer)
}

func (commands observedCommands) ResumeTimer() (model.TimerState, error) {
	return commands.keeper.Apply(commands.dispatcher.ResumeTimer)
}

func (commands observedCommands) ClearTimer() (model.TimerState, error) {
	return commands.keeper.Apply(commands.dispatcher.ClearTimer)
}

func (commands observedCommands) SetPhase(name string) (model.TimerState, error) {
	return commands.keeper.Apply(func() (model.TimerState, error) {
		return commands.dispatcher.SetPhase(name)
	})
}
