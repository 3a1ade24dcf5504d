package main

import (
	"tourdesk/config"
	"tourdesk/di"
	"tourdesk/helper"
	"tourdesk/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Tourdesk API
// @version 1.0
// @description Back office for tour periods, offers, quotes and bookings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetFormat(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http, cleanup := di.InitializeService()
	http.OnShutdown(func() error {
		cleanup()

		return nil
	})
	http.Serve()
}
