package timekeeper

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"pomodoro/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Controller is the part of the command surface the TimeKeeper drives.
type Controller interface {
	GetState() (model.TimerState, error)
	PauseTimer() (model.TimerState, error)
}

// TimeKeeper samples the timer on a fixed interval and fans the snapshots
// out to subscribers. It never changes the countdown itself; the timer
// derives remaining time on every read.
type TimeKeeper struct {
	mu             sync.Mutex
	config         model.TimeKeeperConfig
	controller     Controller
	logger         *slog.Logger
	idleChecker    IdleChecker
	lastIdleCheck  time.Time
	lastCompletion bool
	events         []chan Event
	stopCh         chan struct{}
	running        bool
}

// New creates a TimeKeeper polling controller.
func New(controller Controller, config model.TimeKeeperConfig, logger *slog.Logger) *TimeKeeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeKeeper{
		config:     withDefaults(config),
		controller: controller,
		logger:     logger,
	}
}

func withDefaults(config model.TimeKeeperConfig) model.TimeKeeperConfig {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.IdlePauseAfter <= 0 {
		config.IdlePauseAfter = 5 * time.Minute
	}
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
	return config
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Start launches the polling loop after an immediate first sample.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	if keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = true
	keeper.stopCh = make(chan struct{})
	keeper.lastIdleCheck = time.Time{}
	stopCh := keeper.stopCh
	interval := keeper.config.TickInterval
	keeper.sampleLocked(time.Now())
	keeper.mu.Unlock()

	go keeper.run(stopCh, interval)
}

// Stop terminates the polling loop and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Refresh samples immediately, typically right after a user command.
func (keeper *TimeKeeper) Refresh() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.sampleLocked(time.Now())
}

// Apply runs a user command between two samples. The sample taken before the
// command catches a deadline that passed since the last tick: a clear, start or
// phase switch would otherwise leave Complete inside the same call and the
// completion would never be announced.
func (keeper *TimeKeeper) Apply(command func() (model.TimerState, error)) (model.TimerState, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	now := time.Now()
	if state, err := keeper.controller.GetState(); err == nil {
		keeper.noteCompletionLocked(state, now)
	}

	state, err := command()
	keeper.sampleLocked(now)
	return state, err
}

// UpdateConfig replaces runtime configuration. A changed tick interval
// applies on the next Start.
func (keeper *TimeKeeper) UpdateConfig(config model.TimeKeeperConfig) {
	keeper.mu.Lock()
	keeper.config = withDefaults(config)
	keeper.lastIdleCheck = time.Time{}
	keeper.mu.Unlock()
}

func (keeper *TimeKeeper) run(stopCh <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			keeper.tick(tickTime)
		}
	}
}

func (keeper *TimeKeeper) tick(tickTime time.Time) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running {
		return
	}
	keeper.sampleLocked(tickTime)
}

func (keeper *TimeKeeper) sampleLocked(now time.Time) {
	state, err := keeper.controller.GetState()
	if err != nil {
		keeper.logger.Error("sample timer state", "error", err)
		keeper.emitLocked(Event{
			Type:    EventError,
			Message: err.Error(),
			At:      now,
		})
		return
	}

	if keeper.idlePauseDueLocked(state, now) {
		paused, err := keeper.controller.PauseTimer()
		if err == nil {
			state = paused
			keeper.logger.Info("paused work after inactivity", "remaining_secs", state.RemainingSecs)
			keeper.emitLocked(Event{
				Type:    EventIdlePause,
				State:   state,
				Message: "idle pause",
				At:      now,
			})
		}
	}

	keeper.emitLocked(Event{
		Type:  EventState,
		State: state,
		At:    now,
	})

	keeper.noteCompletionLocked(state, now)
}

// noteCompletionLocked emits EventCompleted on the rising edge of the flag.
func (keeper *TimeKeeper) noteCompletionLocked(state model.TimerState, now time.Time) {
	if state.CompletionFlag && !keeper.lastCompletion {
		keeper.emitLocked(Event{
			Type:    EventCompleted,
			State:   state,
			Message: state.StateLabel,
			At:      now,
		})
	}
	keeper.lastCompletion = state.CompletionFlag
}

func (keeper *TimeKeeper) idlePauseDueLocked(state model.TimerState, now time.Time) bool {
	if !keeper.config.IdlePauseEnabled || keeper.idleChecker == nil {
		return false
	}
	if state.Status != model.StatusRunning || state.Phase != model.PhaseWork {
		return false
	}
	if !keeper.lastIdleCheck.IsZero() && now.Sub(keeper.lastIdleCheck) < keeper.config.IdleCheckInterval {
		return false
	}
	keeper.lastIdleCheck = now

	idleDuration, err := keeper.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.config.IdlePauseEnabled = false
		}
		keeper.logger.Warn("idle check failed", "error", err)
		keeper.emitLocked(Event{
			Type:    EventIdleError,
			State:   state,
			Message: err.Error(),
			At:      now,
		})
		return false
	}
	return idleDuration >= keeper.config.IdlePauseAfter
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
