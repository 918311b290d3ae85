package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"pomodoro/internal/core/model"
)

// Volume bounds for the chime, as base-2 exponents.
const (
	MinChimeVolume = -3.0
	MaxChimeVolume = 1.0
)

// DefaultAPIAddress is the loopback address the control API listens on.
const DefaultAPIAddress = "127.0.0.1:8787"

// ErrNonLoopbackAddress rejects control API addresses reachable from other hosts.
var ErrNonLoopbackAddress = errors.New("api address must be a loopback host")

// Settings defines editable user preferences. Interval lengths are fixed and
// deliberately absent.
type Settings struct {
	ChimeEnabled         bool
	ChimeVolume          float64
	NotificationsEnabled bool

	IdlePauseEnabled bool
	IdlePauseAfter   time.Duration

	APIEnabled bool
	APIAddress string

	LaunchAtLogin bool
	LogLevel      string
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		ChimeEnabled:         true,
		ChimeVolume:          0,
		NotificationsEnabled: true,
		IdlePauseEnabled:     false,
		IdlePauseAfter:       5 * time.Minute,
		APIEnabled:           false,
		APIAddress:           DefaultAPIAddress,
		LaunchAtLogin:        false,
		LogLevel:             "info",
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{
		TickInterval:      time.Second,
		IdlePauseEnabled:  settings.IdlePauseEnabled,
		IdlePauseAfter:    settings.IdlePauseAfter,
		IdleCheckInterval: 5 * time.Second,
	}
}

// ValidateAPIAddress accepts host:port where host is localhost or a loopback IP.
func ValidateAPIAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("parse api address %q: %w", address, err)
	}
	if port == "" {
		return fmt.Errorf("parse api address %q: missing port", address)
	}
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNonLoopbackAddress, address)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (settings Settings) SlogLevel() slog.Level {
	level, ok := ParseLogLevel(settings.LogLevel)
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel accepts debug, info, warn or error in any case.
func ParseLogLevel(value string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
