package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

type stepClock struct {
	now time.Time
}

func (clock *stepClock) Now() time.Time {
	return clock.now
}

func newDispatcher(t *testing.T) (*Dispatcher, *stepClock) {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)}
	return New(pomodoro.NewWithClock(clock), nil), clock
}

func TestCommandsDriveTimer(t *testing.T) {
	dispatcher, clock := newDispatcher(t)

	state, err := dispatcher.Invoke(GetState, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWorkReady, state.Status)

	state, err = dispatcher.Invoke(StartTimer, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, state.Status)

	clock.now = clock.now.Add(300 * time.Second)
	state, err = dispatcher.Invoke(PauseTimer, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1200), state.RemainingSecs)

	state, err = dispatcher.Invoke(ResumeTimer, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, state.Status)

	state, err = dispatcher.Invoke(SetPhase, map[string]string{"phase": "BREAK"})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseBreak, state.Phase)
	assert.Equal(t, model.StatusBreakReady, state.Status)

	state, err = dispatcher.Invoke(SetPhase, map[string]string{"phase": "Work"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, state.Status)
	assert.Equal(t, uint32(1200), state.RemainingSecs)

	state, err = dispatcher.Invoke(ClearTimer, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWorkReady, state.Status)
}

func TestRejectionsCarryUserMessages(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	_, err := dispatcher.PauseTimer()
	assert.EqualError(t, err, "No running timer to pause")

	_, err = dispatcher.ResumeTimer()
	assert.EqualError(t, err, "No paused timer to resume")

	_, err = dispatcher.StartTimer()
	require.NoError(t, err)
	_, err = dispatcher.StartTimer()
	assert.EqualError(t, err, "Timer already running")

	_, err = dispatcher.PauseTimer()
	require.NoError(t, err)
	_, err = dispatcher.StartTimer()
	assert.EqualError(t, err, "Timer is paused, use resume instead")
}

func TestInvalidPhaseNeverReachesTimer(t *testing.T) {
	dispatcher, _ := newDispatcher(t)
	before, err := dispatcher.GetState()
	require.NoError(t, err)

	for _, name := range []string{"lunch", "", "works", " work", "break\n"} {
		_, err := dispatcher.SetPhase(name)
		assert.ErrorIs(t, err, model.ErrInvalidPhaseName)
		assert.EqualError(t, err, "Invalid phase. Use 'work' or 'break'.")
	}

	after, err := dispatcher.GetState()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUnknownCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	_, err := dispatcher.Invoke("skip_break", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

type poisonedTimer struct{}

func (poisonedTimer) GetState() (model.TimerState, error) {
	return model.TimerState{}, pomodoro.ErrLockUnavailable
}
func (poisonedTimer) Start() (model.TimerState, error)  { return poisonedTimer{}.GetState() }
func (poisonedTimer) Pause() (model.TimerState, error)  { return poisonedTimer{}.GetState() }
func (poisonedTimer) Resume() (model.TimerState, error) { return poisonedTimer{}.GetState() }
func (poisonedTimer) Clear() (model.TimerState, error)  { return poisonedTimer{}.GetState() }
func (poisonedTimer) SetPhase(model.Phase) (model.TimerState, error) {
	return poisonedTimer{}.GetState()
}

func TestLockUnavailableIsSurfaced(t *testing.T) {
	dispatcher := New(poisonedTimer{}, nil)

	for _, name := range []string{GetState, StartTimer, PauseTimer, ResumeTimer, ClearTimer} {
		_, err := dispatcher.Invoke(name, nil)
		assert.ErrorIs(t, err, pomodoro.ErrLockUnavailable, name)
	}
	_, err := dispatcher.SetPhase("break")
	assert.ErrorIs(t, err, pomodoro.ErrLockUnavailable)
}
