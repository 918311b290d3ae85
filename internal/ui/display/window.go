package display

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/animation"
)

// Actions defines the handlers invoked by the window controls.
type Actions struct {
	OnStart    func()
	OnPause    func()
	OnResume   func()
	OnClear    func()
	OnSetPhase func(model.Phase)
}

var (
	workColor     = color.NRGBA{R: 214, G: 69, B: 65, A: 255}
	breakColor    = color.NRGBA{R: 72, G: 160, B: 110, A: 255}
	completeColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	dimmedColor   = color.NRGBA{R: 232, G: 190, B: 66, A: 90}
)

const (
	phaseOptionWork  = "Work"
	phaseOptionBreak = "Break"
)

// Window shows the countdown and the timer controls.
type Window struct {
	window        fyne.Window
	countdown     *canvas.Text
	stateLabel    *canvas.Text
	overtimeLabel *canvas.Text
	errorLabel    *widget.Label
	startButton   *widget.Button
	pauseButton   *widget.Button
	resumeButton  *widget.Button
	clearButton   *widget.Button
	phaseSelect   *widget.RadioGroup
	blink         *animation.Engine
	actions       Actions
	state         model.TimerState
	syncing       bool
}

// New creates the main timer window. Closing it hides it; the tray keeps
// the process alive.
func New(app fyne.App, actions Actions) *Window {
	window := app.NewWindow("Pomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	countdown := canvas.NewText(FormatClock(model.WorkDurationSecs), workColor)
	countdown.Alignment = fyne.TextAlignCenter
	countdown.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	countdown.TextSize = 64

	stateLabel := canvas.NewText(model.Label(model.PhaseWork, model.StatusWorkReady), theme.Color(theme.ColorNameForeground))
	stateLabel.Alignment = fyne.TextAlignCenter
	stateLabel.TextSize = 18

	overtimeLabel := canvas.NewText("", completeColor)
	overtimeLabel.Alignment = fyne.TextAlignCenter
	overtimeLabel.TextSize = 14

	errorLabel := widget.NewLabel("")
	errorLabel.Alignment = fyne.TextAlignCenter
	errorLabel.Wrapping = fyne.TextWrapWord

	display := &Window{
		window:        window,
		countdown:     countdown,
		stateLabel:    stateLabel,
		overtimeLabel: overtimeLabel,
		errorLabel:    errorLabel,
		actions:       actions,
	}

	display.blink = animation.New(animation.DefaultConfig(), display.setLit)

	display.startButton = widget.NewButton("Start", func() { invoke(display.actions.OnStart) })
	display.pauseButton = widget.NewButton("Pause", func() { invoke(display.actions.OnPause) })
	display.resumeButton = widget.NewButton("Resume", func() { invoke(display.actions.OnResume) })
	display.clearButton = widget.NewButton("Clear", func() { invoke(display.actions.OnClear) })
	display.startButton.Importance = widget.HighImportance

	display.phaseSelect = widget.NewRadioGroup([]string{phaseOptionWork, phaseOptionBreak}, display.handlePhase)
	display.phaseSelect.Horizontal = true
	display.phaseSelect.Required = true
	display.syncing = true
	display.phaseSelect.SetSelected(phaseOptionWork)
	display.syncing = false

	buttons := container.NewGridWithColumns(4, display.startButton, display.pauseButton, display.resumeButton, display.clearButton)
	content := container.NewVBox(
		container.NewCenter(display.phaseSelect),
		countdown,
		stateLabel,
		overtimeLabel,
		layout.NewSpacer(),
		buttons,
		errorLabel,
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 300))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	display.applyState(model.TimerState{
		Phase:         model.PhaseWork,
		Status:        model.StatusWorkReady,
		RemainingSecs: model.WorkDurationSecs,
		DurationSecs:  model.WorkDurationSecs,
		StateLabel:    model.Label(model.PhaseWork, model.StatusWorkReady),
	})

	return display
}

// Show displays the window.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// SetState renders a snapshot. Safe to call from any goroutine.
func (display *Window) SetState(state model.TimerState) {
	fyne.Do(func() {
		display.applyState(state)
	})
}

// SetError shows a rejection message. An empty message clears it.
func (display *Window) SetError(message string) {
	fyne.Do(func() {
		display.errorLabel.SetText(message)
	})
}

func (display *Window) applyState(state model.TimerState) {
	display.state = state
	if state.Status == model.StatusComplete {
		display.blink.StartBlink(context.Background())
	} else {
		display.blink.Stop()
	}

	display.countdown.Text = FormatClock(state.RemainingSecs)
	if state.Status != model.StatusComplete {
		display.countdown.Color = phaseColor(state)
	}
	display.countdown.Refresh()

	display.stateLabel.Text = state.StateLabel
	display.stateLabel.Refresh()

	display.overtimeLabel.Text = FormatOvertime(state)
	display.overtimeLabel.Refresh()

	controls := ControlsFor(state.Status)
	setEnabled(display.startButton, controls.Start)
	setEnabled(display.pauseButton, controls.Pause)
	setEnabled(display.resumeButton, controls.Resume)
	setEnabled(display.clearButton, controls.Clear)

	option := phaseOptionWork
	if state.Phase == model.PhaseBreak {
		option = phaseOptionBreak
	}
	if display.phaseSelect.Selected != option {
		display.syncing = true
		display.phaseSelect.SetSelected(option)
		display.syncing = false
	}

	display.window.SetTitle("Pomodoro · " + Summary(state))
}

// setLit is the blink frame callback; it runs on the animation goroutine.
func (display *Window) setLit(lit bool) {
	fyne.Do(func() {
		if lit || display.state.Status != model.StatusComplete {
			display.countdown.Color = phaseColor(display.state)
		} else {
			display.countdown.Color = dimmedColor
		}
		display.countdown.Refresh()
	})
}

func (display *Window) handlePhase(option string) {
	if display.syncing || display.actions.OnSetPhase == nil {
		return
	}
	switch option {
	case phaseOptionWork:
		display.actions.OnSetPhase(model.PhaseWork)
	case phaseOptionBreak:
		display.actions.OnSetPhase(model.PhaseBreak)
	}
}

func phaseColor(state model.TimerState) color.Color {
	if state.Status == model.StatusComplete {
		return completeColor
	}
	if state.Phase == model.PhaseBreak {
		return breakColor
	}
	return workColor
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
