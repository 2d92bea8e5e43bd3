package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/config"
	"github.com/scythe504/typerace-backend/internal/database"
	"github.com/scythe504/typerace-backend/internal/game"
	"github.com/scythe504/typerace-backend/internal/metrics"
	"github.com/scythe504/typerace-backend/internal/server"
	"github.com/scythe504/typerace-backend/internal/utils"
	"github.com/scythe504/typerace-backend/internal/websockets"
)

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// sentenceProvider prefers the database corpus and seeds it from the embedded
// sets when empty. Without DATABASE_URL the embedded sets are served directly.
func sentenceProvider(ctx context.Context, cfg config.Config) (game.SentenceProvider, *database.Service) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("DATABASE_URL not set, serving built-in sentence corpus")
		return game.DefaultSentences(), nil
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error().Err(err).Msg("database unavailable, serving built-in sentence corpus")
		return game.DefaultSentences(), nil
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	n, err := db.CountSentenceSets(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to inspect sentence corpus")
	}
	if n == 0 {
		if err := db.SeedSentenceSets(ctx, utils.DefaultSentenceSets()); err != nil {
			log.Fatal().Err(err).Msg("failed to seed sentence corpus")
		}
	}
	return db, db
}

func gracefulShutdown(apiServer *http.Server, hub *websockets.Hub, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	provider, db := sentenceProvider(startupCtx, cfg)
	cancel()

	c := server.NewCORS(cfg.ClientURLs)
	wsConfig := websockets.DefaultConfig()
	wsConfig.CheckOrigin = server.OriginChecker(c)
	hub := websockets.NewHub(wsConfig)

	engine := game.NewEngine(hub,
		game.WithSentenceProvider(provider),
		game.WithSettings(game.Settings{
			CountdownTime: cfg.CountdownTime,
			MatchPlayTime: cfg.MatchPlayTime,
			TickInterval:  internal.TickInterval,
		}),
	)
	hub.SetHandler(engine)

	var opts []server.Option
	if db != nil {
		defer db.Close()
		opts = append(opts, server.WithDatabase(db))
	}
	apiServer := server.NewServer(cfg.Port, engine, hub, c, opts...)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, hub, done)

	log.Info().
		Int("port", cfg.Port).
		Strs("origins", cfg.ClientURLs).
		Int("countdown", cfg.CountdownTime).
		Int("play_time", cfg.MatchPlayTime).
		Msg("server listening")

	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
