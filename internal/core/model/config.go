package model

import "time"

// TimeKeeperConfig contains runtime settings for the display poller.
type TimeKeeperConfig struct {
	TickInterval time.Duration

	IdlePauseEnabled  bool
	IdlePauseAfter    time.Duration
	IdleCheckInterval time.Duration
}
