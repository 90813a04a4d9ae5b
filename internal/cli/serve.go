package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/handlers"
	"github.com/Ananth-NQI/kilimo-smart/internal/jobs"
	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/routes"
	"github.com/Ananth-NQI/kilimo-smart/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logx.Init(logx.Config{Debug: cfg.Log.Debug, Pretty: cfg.Log.Pretty})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := newComponents(ctx, cfg, cfg.JournalBackend)
	if err != nil {
		return err
	}
	defer comps.Close()

	messenger, err := services.NewSMSService(cfg.Twilio)
	if err != nil {
		return err
	}
	dialogue := services.NewDialogueService(comps.store, comps.advisor, messenger, comps.journal)

	var pinger handlers.Pinger
	if comps.db != nil {
		if sqlDB, err := comps.db.DB(); err == nil {
			pinger = sqlDB
		}
	}
	features := handlers.Features{
		Advisor:          cfg.Advisor.Provider,
		AdvisorReady:     comps.advisor != nil,
		WeatherSimulated: comps.weather.Simulated(),
		Journal:          cfg.JournalBackend,
	}

	app := routes.NewApp("Kilimo Smart " + version)
	routes.SetupRoutes(app, routes.Handlers{
		USSD:   handlers.NewUSSDHandler(comps.menu),
		SMS:    handlers.NewSMSHandler(dialogue),
		Health: handlers.NewHealthHandler(version, comps.store, pinger, features),
		Admin:  handlers.NewAdminHandler(comps.store, comps.journal),
	}, cfg.IsDevelopment())

	sweeper := jobs.NewSessionSweeper(comps.store, cfg.Sessions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	if cfg.TablesFile != "" {
		g.Go(func() error {
			return comps.catalog.Watch(gctx, cfg.TablesFile)
		})
	}
	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Str("journal", cfg.JournalBackend).
			Str("version", version).
			Msg("Kilimo Smart starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
