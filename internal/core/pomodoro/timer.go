// Package pomodoro implements the work/break interval state machine.
//
// Remaining time is never decremented by a ticker. Every operation reads the
// clock once and recomputes the countdown from the instant the current
// running stretch began and the value the phase had when that stretch started
// (its saved remaining value, or the full duration). A paused countdown is
// frozen by saving its remaining value, so resume only has to record a new
// start instant.
package pomodoro

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"pomodoro/internal/core/model"
)

var (
	// ErrAlreadyRunning rejects start while a countdown is running.
	ErrAlreadyRunning = errors.New("Timer already running")
	// ErrAlreadyPaused rejects start while paused; resume must be used instead.
	ErrAlreadyPaused = errors.New("Timer is paused, use resume instead")
	// ErrNotRunning rejects pause when nothing is counting down.
	ErrNotRunning = errors.New("No running timer to pause")
	// ErrNotPaused rejects resume when the timer is not paused.
	ErrNotPaused = errors.New("No paused timer to resume")
	// ErrLockUnavailable is returned once an operation panicked while holding
	// the timer lock. The state is no longer trusted.
	ErrLockUnavailable = errors.New("timer lock unavailable")
)

// Clock reports the current instant. Readings must carry Go's monotonic
// component (as time.Now does) so wall-clock changes never move the countdown.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Timer is the shared, mutex-guarded work/break timer.
type Timer struct {
	mu       sync.Mutex
	clock    Clock
	poisoned bool

	phase          model.Phase
	status         model.Status
	remainingSecs  uint32
	durationSecs   uint32
	completionFlag bool
	startedAt      time.Time
	completedAt    time.Time
	savedSecs      map[model.Phase]uint32
}

// New creates a timer in the work phase, waiting to start.
func New() *Timer {
	return NewWithClock(systemClock{})
}

// NewWithClock creates a timer reading time from clock.
func NewWithClock(clock Clock) *Timer {
	if clock == nil {
		clock = systemClock{}
	}
	return &Timer{
		clock:         clock,
		phase:         model.PhaseWork,
		status:        model.StatusWorkReady,
		remainingSecs: model.WorkDurationSecs,
		durationSecs:  model.WorkDurationSecs,
		savedSecs:     make(map[model.Phase]uint32, 2),
	}
}

// GetState returns a fresh snapshot.
func (timer *Timer) GetState() (model.TimerState, error) {
	return timer.apply(func(time.Time) error {
		return nil
	})
}

// Start begins a full countdown in the current phase. A completed phase is
// restarted in place; the timer never advances to the other phase by itself.
func (timer *Timer) Start() (model.TimerState, error) {
	return timer.apply(func(now time.Time) error {
		switch timer.status {
		case model.StatusRunning:
			return ErrAlreadyRunning
		case model.StatusPaused:
			return ErrAlreadyPaused
		}

		timer.status = model.StatusRunning
		timer.durationSecs = timer.phase.DurationSecs()
		timer.remainingSecs = timer.durationSecs
		timer.completionFlag = false
		timer.startedAt = now
		timer.completedAt = time.Time{}
		delete(timer.savedSecs, timer.phase)
		return nil
	})
}

// Pause freezes the running countdown.
func (timer *Timer) Pause() (model.TimerState, error) {
	return timer.apply(func(time.Time) error {
		if timer.status != model.StatusRunning {
			return ErrNotRunning
		}
		timer.suspendLocked()
		return nil
	})
}

// Resume continues a paused countdown from its frozen value.
func (timer *Timer) Resume() (model.TimerState, error) {
	return timer.apply(func(now time.Time) error {
		if timer.status != model.StatusPaused {
			return ErrNotPaused
		}
		timer.savedSecs[timer.phase] = timer.remainingSecs
		timer.status = model.StatusRunning
		timer.startedAt = now
		return nil
	})
}

// Clear resets the current phase to its ready state. The phase itself and
// the other phase's saved countdown are left alone.
func (timer *Timer) Clear() (model.TimerState, error) {
	return timer.apply(func(time.Time) error {
		timer.status = timer.phase.ReadyStatus()
		timer.durationSecs = timer.phase.DurationSecs()
		timer.remainingSecs = timer.durationSecs
		timer.completionFlag = false
		timer.startedAt = time.Time{}
		timer.completedAt = time.Time{}
		delete(timer.savedSecs, timer.phase)
		return nil
	})
}

// SetPhase switches to phase, suspending a running countdown in the phase
// being left. Switching to the current phase changes nothing.
func (timer *Timer) SetPhase(phase model.Phase) (model.TimerState, error) {
	return timer.apply(func(time.Time) error {
		if phase == timer.phase {
			return nil
		}

		switch timer.status {
		case model.StatusRunning:
			timer.suspendLocked()
		case model.StatusPaused:
			timer.savedSecs[timer.phase] = timer.remainingSecs
		}

		timer.phase = phase
		timer.durationSecs = phase.DurationSecs()
		if saved, ok := timer.savedSecs[phase]; ok {
			timer.remainingSecs = saved
			timer.status = model.StatusPaused
		} else {
			timer.remainingSecs = timer.durationSecs
			timer.status = phase.ReadyStatus()
		}
		timer.completionFlag = false
		timer.completedAt = time.Time{}
		return nil
	})
}

// apply runs operation under the lock after bringing the countdown up to
// date, then snapshots the result. Operations must validate before mutating.
func (timer *Timer) apply(operation func(now time.Time) error) (state model.TimerState, err error) {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	if timer.poisoned {
		return model.TimerState{}, ErrLockUnavailable
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			timer.poisoned = true
			state = model.TimerState{}
			err = fmt.Errorf("%w: %v", ErrLockUnavailable, recovered)
		}
	}()

	now := timer.clock.Now()
	timer.deriveRemainingLocked(now)
	if err := operation(now); err != nil {
		return model.TimerState{}, err
	}
	return timer.snapshotLocked(now), nil
}

func (timer *Timer) deriveRemainingLocked(now time.Time) {
	if timer.status != model.StatusRunning {
		return
	}

	elapsed := elapsedSecs(timer.startedAt, now)
	initial := timer.durationSecs
	if saved, ok := timer.savedSecs[timer.phase]; ok {
		initial = saved
	}

	if elapsed >= initial {
		timer.completeLocked(now)
		return
	}
	timer.remainingSecs = initial - elapsed
}

// completeLocked stays in the finished phase. Saved countdowns are kept.
func (timer *Timer) completeLocked(now time.Time) {
	timer.completionFlag = true
	timer.remainingSecs = 0
	timer.status = model.StatusComplete
	timer.startedAt = time.Time{}
	timer.completedAt = now
}

// suspendLocked expects a running timer whose remaining value is current.
func (timer *Timer) suspendLocked() {
	timer.status = model.StatusPaused
	timer.savedSecs[timer.phase] = timer.remainingSecs
	timer.startedAt = time.Time{}
}

func (timer *Timer) snapshotLocked(now time.Time) model.TimerState {
	state := model.TimerState{
		Phase:          timer.phase,
		Status:         timer.status,
		RemainingSecs:  timer.remainingSecs,
		DurationSecs:   timer.durationSecs,
		CompletionFlag: timer.completionFlag,
		StateLabel:     model.Label(timer.phase, timer.status),
	}
	if timer.status == model.StatusComplete {
		overtime := elapsedSecs(timer.completedAt, now)
		if overtime > model.MaxOvertimeSecs {
			overtime = model.MaxOvertimeSecs
		}
		state.OvertimeSecs = &overtime
	}
	return state
}

func elapsedSecs(from, to time.Time) uint32 {
	elapsed := to.Sub(from)
	if elapsed <= 0 {
		return 0
	}
	seconds := int64(elapsed / time.Second)
	if seconds > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(seconds)
}
