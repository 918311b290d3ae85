package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pomodoro/internal/core/model"
)

func TestSetStateTogglesItems(t *testing.T) {
	manager := New(nil, Callbacks{})
	assert.False(t, manager.startItem.Disabled)
	assert.True(t, manager.pauseItem.Disabled)

	manager.SetState(model.TimerState{
		Phase:         model.PhaseWork,
		Status:        model.StatusRunning,
		RemainingSecs: 1499,
		StateLabel:    "Working",
	})
	assert.True(t, manager.startItem.Disabled)
	assert.False(t, manager.pauseItem.Disabled)
	assert.True(t, manager.resumeItem.Disabled)
	assert.Equal(t, "Status: Working 24:59", manager.statusItem.Label)
	assert.Equal(t, "Switch to break", manager.phaseItem.Label)

	manager.SetState(model.TimerState{
		Phase:         model.PhaseBreak,
		Status:        model.StatusPaused,
		RemainingSecs: 200,
		StateLabel:    "Paused (break)",
	})
	assert.False(t, manager.resumeItem.Disabled)
	assert.Equal(t, "Switch to work", manager.phaseItem.Label)
}

func TestPhaseItemSwitchesToOtherPhase(t *testing.T) {
	var requested []model.Phase
	manager := New(nil, Callbacks{
		OnSetPhase: func(phase model.Phase) {
			requested = append(requested, phase)
		},
	})

	manager.phaseItem.Action()
	manager.SetState(model.TimerState{Phase: model.PhaseBreak, Status: model.StatusBreakReady})
	manager.phaseItem.Action()

	assert.Equal(t, []model.Phase{model.PhaseBreak, model.PhaseWork}, requested)
}

func TestMissingCallbacksAreIgnored(t *testing.T) {
	manager := New(nil, Callbacks{})
	assert.NotPanics(t, func() {
		manager.startItem.Action()
		manager.phaseItem.Action()
		manager.quitItem.Action()
	})
}
