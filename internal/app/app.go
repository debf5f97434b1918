// Package app wires configuration, infrastructure, and the HTTP surface
// into a runnable service.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/enj100/oduel-auth-server/internal/config"
)

type App struct {
	httpServer *http.Server
	cleanup    func() error
}

// New builds the app. It blocks until the database connectivity guard
// succeeds; an error here means the service must not serve traffic.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppPort,
			Handler: router,
		},
		cleanup: cleanup,
	}, nil
}

func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	if a.cleanup != nil {
		err = errors.Join(err, a.cleanup())
	}
	return err
}
