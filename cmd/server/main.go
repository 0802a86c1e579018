package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rotacerta/backend/internal/config"
	"github.com/rotacerta/backend/internal/db"
	"github.com/rotacerta/backend/internal/geo"
	"github.com/rotacerta/backend/internal/geocode"
	httpapi "github.com/rotacerta/backend/internal/http"
	"github.com/rotacerta/backend/internal/live"
	"github.com/rotacerta/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "rotacerta-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var liveStore *live.Store
	if cfg.RedisAddr != "" {
		liveStore = live.New(cfg.RedisAddr, cfg.LiveLocationTTL)
		if err := liveStore.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, live locations disabled")
			liveStore = nil
		}
	} else {
		logger.Info().Msg("no REDIS_ADDR, live locations disabled")
	}

	var geocoder geocode.Geocoder
	if cfg.GeocoderURL != "" {
		geocoder = &geocode.NominatimGeocoder{BaseURL: cfg.GeocoderURL}
	} else {
		geocoder = &geocode.NominatimGeocoder{}
	}

	resolver := geo.NewResolver(nil)
	planner := &service.Planner{
		Repo:     store,
		Resolver: resolver,
		SpeedKmh: cfg.AverageSpeedKmh,
		Logger:   logger,
	}

	router := httpapi.Router(cfg, store, planner, resolver, liveStore, geocoder, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
