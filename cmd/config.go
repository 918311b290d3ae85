package main

import (
	"time"

	"pomodoro/internal/api"
	"pomodoro/internal/sound"
	"pomodoro/internal/ui/preferences"
)

const apiShutdownTimeout = 5 * time.Second

// apiConfig falls back to the default address when the stored one is not loopback.
func apiConfig(settings preferences.Settings) api.Config {
	address := settings.APIAddress
	if preferences.ValidateAPIAddress(address) != nil {
		address = preferences.DefaultAPIAddress
	}
	return api.Config{
		Address:         address,
		ShutdownTimeout: apiShutdownTimeout,
	}
}

func chimeConfig(settings preferences.Settings) sound.Config {
	return sound.Config{
		Enabled: settings.ChimeEnabled,
		Volume:  settings.ChimeVolume,
	}
}
