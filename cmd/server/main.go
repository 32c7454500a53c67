package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/config"
	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/httpapi"
	"github.com/DoyleJ11/sniper-keeper/internal/hub"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"github.com/DoyleJ11/sniper-keeper/internal/logging"
	"github.com/DoyleJ11/sniper-keeper/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, history, closeRecorders := openRecorders(ctx, cfg, logger)
	defer closeRecorders()

	h := hub.NewHub(ctx,
		hub.WithLogger(logger.Named("hub")),
		hub.WithLobbyOptions(
			lobby.WithRecorder(recorder),
			lobby.WithLogger(logger.Named("lobby")),
		),
	)

	newGame := func() *engine.Game {
		return engine.NewDefaultGame(engine.WithMaxRounds(cfg.MaxRounds))
	}

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(h, newGame, history, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openRecorders wires whichever sinks are configured. A sink that fails to
// open is logged and skipped so the game still runs. History is served from
// postgres only.
func openRecorders(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Recorder, store.HistoryReader, func()) {
	var sinks store.MultiRecorder
	var history store.HistoryReader
	var closers []func() error

	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres recorder disabled", zap.Error(err))
		} else {
			sinks = append(sinks, pg)
			history = pg
			closers = append(closers, pg.Close)
			logger.Info("recording to postgres")
		}
	}

	if cfg.RedisAddr != "" {
		rr, err := store.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisQueue)
		if err != nil {
			logger.Error("redis recorder disabled", zap.Error(err))
		} else {
			sinks = append(sinks, rr)
			closers = append(closers, rr.Close)
			logger.Info("recording to redis", zap.String("queue", cfg.RedisQueue))
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("close recorder", zap.Error(err))
			}
		}
	}

	if len(sinks) == 0 {
		return store.NopRecorder{}, history, closeAll
	}
	return sinks, history, closeAll
}
