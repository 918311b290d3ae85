package preferences

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsConvert(t *testing.T) {
	settings := DefaultSettings()

	keeper := settings.TimeKeeperConfig()
	assert.Equal(t, time.Second, keeper.TickInterval)
	assert.False(t, keeper.IdlePauseEnabled)
	assert.Equal(t, 5*time.Minute, keeper.IdlePauseAfter)

	assert.Equal(t, "127.0.0.1:8787", settings.APIAddress)
	assert.NoError(t, ValidateAPIAddress(settings.APIAddress))
	assert.True(t, settings.ChimeEnabled)
	assert.Zero(t, settings.ChimeVolume)

	assert.Equal(t, slog.LevelInfo, settings.SlogLevel())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{input: "debug", want: slog.LevelDebug, ok: true},
		{input: "INFO", want: slog.LevelInfo, ok: true},
		{input: "warning", want: slog.LevelWarn, ok: true},
		{input: " error ", want: slog.LevelError, ok: true},
		{input: "trace", want: slog.LevelInfo, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, ok := ParseLogLevel(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	settings := DefaultSettings()
	settings.LogLevel = "verbose"
	assert.Equal(t, slog.LevelInfo, settings.SlogLevel())
}

func TestValidateAPIAddress(t *testing.T) {
	tests := []struct {
		address string
		wantErr error
	}{
		{address: "127.0.0.1:8787"},
		{address: "127.0.0.2:9000"},
		{address: "localhost:8787"},
		{address: "LOCALHOST:1"},
		{address: "[::1]:8787"},
		{address: "0.0.0.0:8787", wantErr: ErrNonLoopbackAddress},
		{address: ":8787", wantErr: ErrNonLoopbackAddress},
		{address: "192.168.1.20:8787", wantErr: ErrNonLoopbackAddress},
		{address: "[::]:8787", wantErr: ErrNonLoopbackAddress},
		{address: "example.com:8787", wantErr: ErrNonLoopbackAddress},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := ValidateAPIAddress(tt.address)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAPIAddressRejectsMalformed(t *testing.T) {
	for _, address := range []string{"127.0.0.1", "127.0.0.1:", ""} {
		assert.Error(t, ValidateAPIAddress(address), address)
	}
}
