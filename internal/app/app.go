package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/config"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/observability"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Server    *http.Server
	Telemetry *observability.Runtime
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, telemetry *observability.Runtime) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Telemetry: telemetry}
}

// Shutdown stops accepting connections, drains in-flight requests and
// flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
