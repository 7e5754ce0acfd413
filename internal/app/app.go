// Package app assembles the application components and owns their lifecycle.
package app

import (
	"log/slog"

	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/review"
	"github.com/critiq-ai/critiq/internal/server"
)

// App holds the wired application components. CLI commands use Reviewer and
// Git directly; the web command runs Server.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Reviewer *review.Service
	Git      *gitutil.Client
	Server   *server.Server
}

// NewApp bundles the already-constructed components.
func NewApp(cfg *config.Config, logger *slog.Logger, reviewer *review.Service, git *gitutil.Client, srv *server.Server) *App {
	return &App{
		Cfg:      cfg,
		Logger:   logger,
		Reviewer: reviewer,
		Git:      git,
		Server:   srv,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.Logger.Info("starting critiq",
		"server_port", a.Cfg.ServerPort,
		"provider", a.Cfg.LLMProvider,
		"model", a.Cfg.ModelName)

	if err := a.Server.Start(); err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts the application down cleanly.
func (a *App) Stop() error {
	a.Logger.Info("shutting down critiq")

	if err := a.Server.Stop(); err != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", err)
		return err
	}

	a.Logger.Info("critiq stopped")
	return nil
}
