package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/config"
	"github.com/missolin/duck-image-tool/handlers"
)

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	router := handlers.NewRouter(cfg)

	log.Info().
		Str("port", cfg.Port).
		Int("max_upload_mb", cfg.MaxUploadMB).
		Str("carrier_format", cfg.CarrierFormat).
		Strs("origins", cfg.AllowedOrigins).
		Msg("server starting")
	log.Info().Msg("API endpoints:")
	log.Info().Msg("  GET  /api/health  - Health check")
	log.Info().Msg("  POST /api/encode  - Hide a file in a duck image (returns the image)")
	log.Info().Msg("  POST /api/decode  - Recover the file hidden in a duck image")
	log.Info().Msg("  POST /api/inspect - Report carrier capacity per bit depth")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
