package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cardiodash/internal/config"
	"cardiodash/internal/container"
	"cardiodash/internal/logger"
	"cardiodash/internal/telemetry"
	"cardiodash/ui"
)

func main() {
	envErr := godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(appConfig.App.Name, appConfig.Log.Level)
	if envErr != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, appConfig.Telemetry)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled: exporter setup failed")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application container")
	}
	defer appContainer.Shutdown(context.Background())

	appContainer.Warm(ctx)

	server, err := ui.NewServer(ui.Deps{
		Config:     appConfig,
		Controller: appContainer.Controller,
		Sessions:   appContainer.Sessions,
		Resources:  appContainer.Resources,
		Charts:     appContainer.Charts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	admin := ui.NewAdmin(appContainer.Resources, appConfig.Profiling.Enabled)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, appConfig.Addr())
	})
	g.Go(func() error {
		if appConfig.Profiling.Enabled {
			log.Info().Msgf("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
		}
		return admin.Run(gctx, ":"+appConfig.Profiling.Port)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		stop()
		os.Exit(1)
	}
}
