package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"pomodoro/internal/api"
	"pomodoro/internal/command"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
	"pomodoro/internal/core/timekeeper"
	"pomodoro/internal/platform"
	"pomodoro/internal/sound"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/display"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const (
	appName         = "Pomodoro"
	appID           = "com.pomodoro.app"
	shutdownTimeout = 5 * time.Second
)

func main() {
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	guard, err := platform.AcquireSingleInstance(appID)
	if err != nil {
		var conflict *platform.InstanceConflictError
		if errors.As(err, &conflict) {
			logger.Info("already running, activating existing instance",
				"address", conflict.Address, "notified", conflict.Notified)
			return
		}
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}
	logLevel.Set(settings.SlogLevel())

	timer := pomodoro.New()
	dispatcher := command.New(timer, logger.With("component", "command"))

	keeper := timekeeper.New(dispatcher, settings.TimeKeeperConfig(), logger.With("component", "timekeeper"))
	keeper.SetIdleChecker(platform.NewIdleProvider())

	chime := sound.NewChime(chimeConfig(settings))
	autostart := platform.NewService()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.HistoryIcon())

	shell := &shell{
		logger:     logger,
		dispatcher: dispatcher,
		keeper:     keeper,
	}
	shell.notify.Store(settings.NotificationsEnabled)

	shell.display = display.New(fyneApp, display.Actions{
		OnStart:    shell.action(dispatcher.StartTimer),
		OnPause:    shell.action(dispatcher.PauseTimer),
		OnResume:   shell.action(dispatcher.ResumeTimer),
		OnClear:    shell.action(dispatcher.ClearTimer),
		OnSetPhase: shell.setPhase,
	})

	guard.OnActivate(func() {
		fyne.Do(shell.display.Show)
	})
	shell.restartAPI(settings)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		previous := settings
		settings = updated

		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Error("save settings", "error", err)
		}
		logLevel.Set(settings.SlogLevel())
		keeper.UpdateConfig(settings.TimeKeeperConfig())
		chime.UpdateConfig(chimeConfig(settings))
		shell.notify.Store(settings.NotificationsEnabled)

		if previous.APIEnabled != settings.APIEnabled || previous.APIAddress != settings.APIAddress {
			shell.restartAPI(settings)
		}
		if previous.LaunchAtLogin != settings.LaunchAtLogin {
			if err := platform.SetLaunchAtLogin(autostart, appName, settings.LaunchAtLogin); err != nil {
				logger.Error("launch at login", "enabled", settings.LaunchAtLogin, "error", err)
			}
		}
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		shell.desktop = desktopApp
		shell.tray = tray.New(desktopApp, tray.Callbacks{
			OnShow:        shell.display.Show,
			OnStart:       shell.action(dispatcher.StartTimer),
			OnPause:       shell.action(dispatcher.PauseTimer),
			OnResume:      shell.action(dispatcher.ResumeTimer),
			OnClear:       shell.action(dispatcher.ClearTimer),
			OnSetPhase:    shell.setPhase,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(trayIcon(model.StatusWorkReady))
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case timekeeper.EventState:
				shell.render(event.State)
			case timekeeper.EventCompleted:
				announceCompletion(fyneApp, chime, shell.notify.Load(), event.State, logger)
			case timekeeper.EventIdlePause:
				logger.Info("paused after inactivity", "remaining_secs", event.State.RemainingSecs)
			case timekeeper.EventIdleError:
				logger.Warn("idle detection unavailable", "error", event.Message)
			case timekeeper.EventError:
				shell.display.SetError(event.Message)
			}
		}
	}()

	keeper.Start()
	fyneApp.Lifecycle().SetOnStopped(func() {
		keeper.Stop()
		shell.stopAPI(context.Background())
	})

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"timekeeper": func(ctx context.Context) error {
			keeper.Stop()
			return nil
		},
		"api": func(ctx context.Context) error {
			shell.stopAPI(ctx)
			return nil
		},
		"desktop": func(ctx context.Context) error {
			fyne.Do(fyneApp.Quit)
			return nil
		},
	})
	go func() {
		code := <-wait
		logger.Info("shutdown on signal", "exit_code", code)
	}()

	shell.display.Show()
	fyneApp.Run()
}

// shell routes UI actions through the command dispatcher and renders the
// resulting snapshots.
type shell struct {
	logger     *slog.Logger
	dispatcher *command.Dispatcher
	keeper     *timekeeper.TimeKeeper
	display    *display.Window
	tray       *tray.Manager
	desktop    desktop.App
	notify     atomic.Bool

	apiMu  sync.Mutex
	server *api.Server
}

func (shell *shell) action(operation func() (model.TimerState, error)) func() {
	return func() {
		shell.finish(shell.keeper.Apply(operation))
	}
}

func (shell *shell) setPhase(phase model.Phase) {
	shell.finish(shell.keeper.Apply(func() (model.TimerState, error) {
		return shell.dispatcher.SetPhase(string(phase))
	}))
}

func (shell *shell) finish(state model.TimerState, err error) {
	if err != nil {
		shell.display.SetError(err.Error())
		return
	}
	shell.display.SetError("")
	shell.render(state)
}

func (shell *shell) render(state model.TimerState) {
	shell.display.SetState(state)
	if shell.tray == nil {
		return
	}
	fyne.Do(func() {
		shell.tray.SetState(state)
		shell.desktop.SetSystemTrayIcon(trayIcon(state.Status))
	})
}

func trayIcon(status model.Status) fyne.Resource {
	switch status {
	case model.StatusRunning:
		return theme.MediaPlayIcon()
	case model.StatusPaused:
		return theme.MediaPauseIcon()
	case model.StatusComplete:
		return theme.ConfirmIcon()
	default:
		return theme.HistoryIcon()
	}
}

func announceCompletion(fyneApp fyne.App, chime *sound.Chime, notify bool, state model.TimerState, logger *slog.Logger) {
	logger.Info("phase completed", "phase", state.Phase)
	if err := chime.Play(); err != nil {
		logger.Warn("play chime", "error", err)
	}
	if notify {
		fyne.Do(func() {
			fyneApp.SendNotification(fyne.NewNotification(appName, state.StateLabel))
		})
	}
}

// restartAPI stops any running control API and starts a new one when enabled.
// A fiber app cannot listen again after shutdown, so each start builds a new server.
func (shell *shell) restartAPI(settings preferences.Settings) {
	shell.stopAPI(context.Background())
	if !settings.APIEnabled {
		return
	}

	server := api.NewServer(observedCommands{dispatcher: shell.dispatcher, keeper: shell.keeper}, apiConfig(settings), shell.logger.With("component", "api"))
	server.Start()

	shell.apiMu.Lock()
	shell.server = server
	shell.apiMu.Unlock()
}

func (shell *shell) stopAPI(ctx context.Context) {
	shell.apiMu.Lock()
	server := shell.server
	shell.server = nil
	shell.apiMu.Unlock()

	if server == nil {
		return
	}
	if err := server.Stop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		shell.logger.Warn("stop api", "address", server.Address(), "error", err)
	}
}
