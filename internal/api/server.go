// Package api exposes the timer commands as a small JSON control plane on
// the loopback interface, so scripts and status bars can drive the same timer
// as the desktop window.
package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

const (
	APIVersion     = "v1"
	DefaultAddress = "127.0.0.1:8787"
)

// TimeNow is swapped in tests to pin response timestamps.
var TimeNow = time.Now

// Commands is the command surface served over HTTP.
type Commands interface {
	GetState() (model.TimerState, error)
	StartTimer() (model.TimerState, error)
	PauseTimer() (model.TimerState, error)
	ResumeTimer() (model.TimerState, error)
	ClearTimer() (model.TimerState, error)
	SetPhase(name string) (model.TimerState, error)
}

// Config configures the HTTP server.
type Config struct {
	Address         string
	ShutdownTimeout time.Duration
}

// APIError is the body of every failed request.
type APIError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Server hosts the control API.
type Server struct {
	app      *fiber.App
	commands Commands
	logger   *slog.Logger
	config   Config
}

// NewServer wires routes for commands. Nothing listens until Start.
func NewServer(commands Commands, config Config, logger *slog.Logger) *Server {
	if commands == nil {
		panic("api.NewServer: commands is nil")
	}
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		commands: commands,
		logger:   logger,
		config:   config,
	}
	server.app = fiber.New(fiber.Config{
		AppName:               "pomodoro",
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          server.handleError,
	})
	server.app.Use(recover.New())

	v1 := server.app.Group("/" + APIVersion)
	v1.Get("/healthz", server.handleHealthz)
	v1.Get("/timer", server.handleState)
	v1.Post("/timer/start", server.handleStart)
	v1.Post("/timer/pause", server.handlePause)
	v1.Post("/timer/resume", server.handleResume)
	v1.Post("/timer/clear", server.handleClear)
	v1.Put("/timer/phase/:phase", server.handleSetPhase)

	return server
}

// Address returns the configured listen address.
func (server *Server) Address() string {
	return server.config.Address
}

// Start begins serving in a background goroutine.
func (server *Server) Start() {
	go func() {
		server.logger.Info("api listening", "address", server.config.Address)
		if err := server.app.Listen(server.config.Address); err != nil {
			server.logger.Error("api listen", "address", server.config.Address, "error", err)
		}
	}()
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout.
func (server *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, server.config.ShutdownTimeout)
	defer cancel()
	return server.app.ShutdownWithContext(ctx)
}

func (server *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": TimeNow().UTC().Format(time.RFC3339),
	})
}

func (server *Server) handleState(c *fiber.Ctx) error {
	return respond(c, server.commands.GetState)
}

func (server *Server) handleStart(c *fiber.Ctx) error {
	return respond(c, server.commands.StartTimer)
}

func (server *Server) handlePause(c *fiber.Ctx) error {
	return respond(c, server.commands.PauseTimer)
}

func (server *Server) handleResume(c *fiber.Ctx) error {
	return respond(c, server.commands.ResumeTimer)
}

func (server *Server) handleClear(c *fiber.Ctx) error {
	return respond(c, server.commands.ClearTimer)
}

func (server *Server) handleSetPhase(c *fiber.Ctx) error {
	phase := c.Params("phase")
	return respond(c, func() (model.TimerState, error) {
		return server.commands.SetPhase(phase)
	})
}

func (server *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		server.logger.Error("api request", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return writeError(c, code, err.Error())
}

func respond(c *fiber.Ctx, operation func() (model.TimerState, error)) error {
	state, err := operation()
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}
	return c.JSON(state)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidPhaseName):
		return fiber.StatusBadRequest
	case errors.Is(err, pomodoro.ErrAlreadyRunning),
		errors.Is(err, pomodoro.ErrAlreadyPaused),
		errors.Is(err, pomodoro.ErrNotRunning),
		errors.Is(err, pomodoro.ErrNotPaused):
		return fiber.StatusConflict
	case errors.Is(err, pomodoro.ErrLockUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(APIError{
		Error:     message,
		Timestamp: TimeNow().UTC().Format(time.RFC3339),
	})
}
