package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/kilimo-smart/database"
	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/services"
	"github.com/Ananth-NQI/kilimo-smart/internal/storage"
)

// components are the pieces shared by serve and simulate.
type components struct {
	store   *storage.MemoryStore
	journal storage.JournalStore
	catalog *services.Catalog
	weather *services.OpenWeatherClient
	advisor services.Advisor
	menu    *services.MenuService
	db      *gorm.DB
}

func newComponents(ctx context.Context, cfg *config.Config, journalBackend string) (*components, error) {
	c := &components{
		store:   storage.NewMemoryStore(storage.WithMaxTurns(cfg.Sessions.DialogueMaxTurns)),
		catalog: services.NewCatalog(),
		weather: services.NewOpenWeatherClient(cfg.Weather),
	}

	if cfg.TablesFile != "" {
		if err := c.catalog.LoadFile(cfg.TablesFile); err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.TablesFile).Msg("advisory tables loaded")
	}

	switch journalBackend {
	case config.JournalPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		journal, err := storage.NewGormJournal(db)
		if err != nil {
			return nil, err
		}
		c.db, c.journal = db, journal
	default:
		c.journal = storage.NewMemoryJournal()
	}

	advisor, err := services.NewAdvisor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize advisor: %w", err)
	}
	c.advisor = advisor
	if advisor == nil {
		log.Warn().Str("provider", cfg.Advisor.Provider).Msg("advisor api key not set, AI advice disabled")
	}
	if c.weather.Simulated() {
		log.Warn().Msg("openweather api key not set, serving simulated weather")
	}

	location := services.Location{
		Name:      cfg.Weather.Location,
		Lat:       cfg.Weather.Lat,
		Lon:       cfg.Weather.Lon,
		HasCoords: true,
	}
	resolver := services.NewAdvisoryResolver(c.catalog, c.weather, location)
	c.menu = services.NewMenuService(c.store, resolver, c.advisor, c.journal)
	return c, nil
}

func (c *components) Close() {
	if c.db == nil {
		return
	}
	if sqlDB, err := c.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
