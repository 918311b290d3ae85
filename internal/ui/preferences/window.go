package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	chime         *widget.Check
	volume        *widget.Slider
	notifications *widget.Check
	idlePause     *widget.Check
	idleMinutes   *widget.Entry
	apiEnabled    *widget.Check
	apiAddress    *widget.Entry
	launchAtLogin *widget.Check
	logLevel      *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		chime:         widget.NewCheck("Play a chime when a phase completes", nil),
		volume:        widget.NewSlider(MinChimeVolume, MaxChimeVolume),
		notifications: widget.NewCheck("Show a notification when a phase completes", nil),
		idlePause:     widget.NewCheck("Pause work when I'm away", nil),
		idleMinutes:   widget.NewEntry(),
		apiEnabled:    widget.NewCheck("Enable local control API", nil),
		apiAddress:    widget.NewEntry(),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
		logLevel:      widget.NewSelect(logLevels, nil),
	}
	prefs.volume.Step = 0.25

	form := container.NewVBox(
		widget.NewLabelWithStyle("Completion", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.chime,
		container.NewBorder(nil, nil, widget.NewLabel("Chime volume"), nil, prefs.volume),
		prefs.notifications,
		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idlePause,
		container.NewHBox(widget.NewLabel("Away after"), prefs.idleMinutes, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Integration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.apiEnabled,
		container.NewBorder(nil, nil, widget.NewLabel("Listen on"), nil, prefs.apiAddress),
		prefs.launchAtLogin,
		container.NewHBox(widget.NewLabel("Log level"), prefs.logLevel),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
		prefs.UpdateSettings(prefs.settings)
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.chime.SetChecked(settings.ChimeEnabled)
	prefs.volume.SetValue(settings.ChimeVolume)
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.idlePause.SetChecked(settings.IdlePauseEnabled)
	prefs.idleMinutes.SetText(fmt.Sprintf("%d", int(settings.IdlePauseAfter.Minutes())))
	prefs.apiEnabled.SetChecked(settings.APIEnabled)
	prefs.apiAddress.SetText(settings.APIAddress)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.logLevel.SetSelected(settings.LogLevel)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.ChimeEnabled = prefs.chime.Checked
	settings.ChimeVolume = prefs.volume.Value
	settings.NotificationsEnabled = prefs.notifications.Checked
	settings.IdlePauseEnabled = prefs.idlePause.Checked
	if minutes, ok := parsePositiveInt(prefs.idleMinutes.Text); ok {
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}
	settings.APIEnabled = prefs.apiEnabled.Checked
	if address := strings.TrimSpace(prefs.apiAddress.Text); ValidateAPIAddress(address) == nil {
		settings.APIAddress = address
	}
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked
	if _, ok := ParseLogLevel(prefs.logLevel.Selected); ok {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
