package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/ui/preferences"
)

func TestMissingFileYieldsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)
	want := preferences.Settings{
		ChimeEnabled:         false,
		ChimeVolume:          -1.5,
		NotificationsEnabled: false,
		IdlePauseEnabled:     true,
		IdlePauseAfter:       12 * time.Minute,
		APIEnabled:           true,
		APIAddress:           "127.0.0.1:9900",
		LaunchAtLogin:        true,
		LogLevel:             "debug",
	}

	require.NoError(t, SaveSettingsFile(path, want))
	got, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("api_enabled: true\n"), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)

	want := preferences.DefaultSettings()
	want.APIEnabled = true
	assert.Equal(t, want, settings)
}

func TestOutOfRangeValuesAreIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	content := `
chime_volume: 7
idle_pause_after_minutes: -4
api_address: "   "
log_level: chatty
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestMalformedFileReturnsDefaultsAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("chime_enabled: [unterminated"), 0o644))

	settings, err := LoadSettingsFile(path)
	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestNonLoopbackAPIAddressIsIgnored(t *testing.T) {
	for _, address := range []string{"0.0.0.0:8787", "10.0.0.5:8787", ":8787"} {
		path := filepath.Join(t.TempDir(), settingsFileName)
		content := "api_enabled: true\napi_address: \"" + address + "\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		settings, err := LoadSettingsFile(path)
		require.NoError(t, err)
		assert.True(t, settings.APIEnabled)
		assert.Equal(t, preferences.DefaultAPIAddress, settings.APIAddress, address)
	}
}
