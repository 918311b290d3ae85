package preferences

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCollectsEditedValues(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved []Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = append(saved, settings)
	})

	prefs.chime.SetChecked(false)
	prefs.volume.SetValue(-2)
	prefs.idlePause.SetChecked(true)
	prefs.idleMinutes.SetText("15")
	prefs.apiEnabled.SetChecked(true)
	prefs.apiAddress.SetText(" 127.0.0.1:9000 ")
	prefs.logLevel.SetSelected("debug")
	prefs.handleSave()

	require.Len(t, saved, 1)
	got := saved[0]
	assert.False(t, got.ChimeEnabled)
	assert.Equal(t, -2.0, got.ChimeVolume)
	assert.True(t, got.IdlePauseEnabled)
	assert.Equal(t, 15*time.Minute, got.IdlePauseAfter)
	assert.True(t, got.APIEnabled)
	assert.Equal(t, "127.0.0.1:9000", got.APIAddress)
	assert.Equal(t, "debug", got.LogLevel)
}

func TestSaveKeepsPreviousValuesForInvalidInput(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = settings
	})

	prefs.idleMinutes.SetText("soon")
	prefs.apiAddress.SetText("  ")
	prefs.handleSave()

	assert.Equal(t, DefaultSettings(), saved)
}

func TestSaveRejectsNonLoopbackAPIAddress(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = settings
	})

	for _, address := range []string{"0.0.0.0:8787", "192.168.1.20:8787", ":8787"} {
		prefs.apiAddress.SetText(address)
		prefs.handleSave()
		assert.Equal(t, DefaultAPIAddress, saved.APIAddress, address)
	}

	prefs.apiAddress.SetText("localhost:9100")
	prefs.handleSave()
	assert.Equal(t, "localhost:9100", saved.APIAddress)
}

func TestParsePositiveInt(t *testing.T) {
	value, ok := parsePositiveInt(" 7 ")
	assert.True(t, ok)
	assert.Equal(t, 7, value)

	_, ok = parsePositiveInt("0")
	assert.False(t, ok)
	_, ok = parsePositiveInt("-3")
	assert.False(t, ok)
}
