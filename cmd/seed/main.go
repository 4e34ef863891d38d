package main

import (
	"go-signshop-api/internal/config"
	"go-signshop-api/internal/repository"
	"go-signshop-api/pkg/database"
	"go-signshop-api/pkg/logger"

	"github.com/rs/zerolog/log"
)

// seed migrates the configured database and loads the demo catalog.
// Running it twice leaves the data unchanged.
func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	appLog := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// 2. Setup Database
	db, err := database.Connect(database.Config{
		Driver: cfg.DBDriver,
		DSN:    cfg.DSN(),
		Logger: appLog,
	})
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := repository.Migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("Migration failed")
	}

	// 3. Seed
	catalog, err := repository.SeedDemoData(db)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	appLog.Info().
		Int("prices", len(catalog.Prices)).
		Int("extraProducts", len(catalog.ExtraProducts)).
		Int("products", len(catalog.Products)).
		Int("customers", len(catalog.Customers)).
		Msg("Demo data ready")
}
