package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/display"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnPause       func()
	OnResume      func()
	OnClear       func()
	OnSetPhase    func(model.Phase)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	showItem   *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resumeItem *fyne.MenuItem
	clearItem  *fyne.MenuItem
	phaseItem  *fyne.MenuItem
	prefsItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks
	phase      model.Phase
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		phase:     model.PhaseWork,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.showItem = fyne.NewMenuItem("Show timer", func() { invoke(manager.callbacks.OnShow) })
	manager.startItem = fyne.NewMenuItem("Start", func() { invoke(manager.callbacks.OnStart) })
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { invoke(manager.callbacks.OnPause) })
	manager.resumeItem = fyne.NewMenuItem("Resume", func() { invoke(manager.callbacks.OnResume) })
	manager.clearItem = fyne.NewMenuItem("Clear", func() { invoke(manager.callbacks.OnClear) })
	manager.phaseItem = fyne.NewMenuItem(switchLabel(model.PhaseWork), func() {
		if manager.callbacks.OnSetPhase != nil {
			manager.callbacks.OnSetPhase(manager.phase.Other())
		}
	})
	manager.prefsItem = fyne.NewMenuItem("Preferences", func() { invoke(manager.callbacks.OnPreferences) })
	manager.quitItem = fyne.NewMenuItem("Quit", func() { invoke(manager.callbacks.OnQuit) })
	manager.quitItem.IsQuit = true

	manager.applyControls(display.ControlsFor(model.StatusWorkReady))
	manager.refreshMenu()

	return manager
}

// SetState updates the status line and enables the actions valid for state.
func (manager *Manager) SetState(state model.TimerState) {
	manager.phase = state.Phase
	manager.statusItem.Label = "Status: " + display.Summary(state)
	manager.phaseItem.Label = switchLabel(state.Phase)
	manager.applyControls(display.ControlsFor(state.Status))
	manager.refreshMenu()
}

func (manager *Manager) applyControls(controls display.Controls) {
	manager.startItem.Disabled = !controls.Start
	manager.pauseItem.Disabled = !controls.Pause
	manager.resumeItem.Disabled = !controls.Resume
	manager.clearItem.Disabled = !controls.Clear
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro",
		manager.statusItem,
		manager.showItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resumeItem,
		manager.clearItem,
		manager.phaseItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	))
}

func switchLabel(current model.Phase) string {
	if current == model.PhaseWork {
		return "Switch to break"
	}
	return "Switch to work"
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
