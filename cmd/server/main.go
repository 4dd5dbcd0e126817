package main // Entry point package

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edulabs/lab-room-booking/internal/config"
	"github.com/edulabs/lab-room-booking/internal/database"
	"github.com/edulabs/lab-room-booking/internal/handler"
	"github.com/edulabs/lab-room-booking/internal/queue"
	"github.com/edulabs/lab-room-booking/internal/repository"
	"github.com/edulabs/lab-room-booking/internal/router"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if cfg.Env == "prod" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, calendar cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	userRepo := repository.NewUserRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	checklistRepo := repository.NewChecklistRepo(db)

	h := handler.NewBookingHandler(userRepo, roomRepo, reservationRepo, checklistRepo, rdb, cacheCfg.Prefix)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e)
	router.RegisterBooking(e, h, cfg.JWTSecret, rdb, cacheCfg, rlCfg)

	// The audit consumer runs for the lifetime of the process and handles
	// its own reconnects.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Error().Err(err).Msg("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
