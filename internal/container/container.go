package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"cardiodash/internal/charts"
	"cardiodash/internal/config"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/resources"
	"cardiodash/internal/session"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Shared immutable resources
	Resources *resources.Loader
	Charts    *charts.Renderer

	// Per-browser state
	Sessions *dashboard.Sessions

	Controller *dashboard.Controller
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	chartRenderer, err := charts.NewRenderer()
	if err != nil {
		return nil, err
	}
	loader := resources.NewLoader(cfg.Data.DatasetPath, cfg.Data.ModelPath)

	c := &Container{
		Config:    cfg,
		Resources: loader,
		Charts:    chartRenderer,
		Sessions:  dashboard.NewSessions(session.NewStore(cfg.Session.CacheBytes, cfg.Session.TTL)),
		Controller: dashboard.NewController(loader, chartRenderer, dashboard.Options{
			SampleSize: cfg.Data.SampleSize,
		}),
	}

	log.Info().
		Str("dataset", cfg.Data.DatasetPath).
		Str("model", cfg.Data.ModelPath).
		Msg("[Container] initialized")
	return c, nil
}

// Warm loads the dataset and model ahead of the first request.
func (c *Container) Warm(ctx context.Context) {
	c.Resources.Warm(ctx)
}

// Shutdown releases background resources
func (c *Container) Shutdown(ctx context.Context) error {
	c.Charts.Close()
	log.Info().Msg("[Container] shut down")
	return nil
}
