// Command devserver runs an in-memory TaskBuddy backend stub: the full
// REST contract plus the notification WebSocket, with nothing to install.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskbuddy/taskbuddy-go/internal/devserver"
	"github.com/taskbuddy/taskbuddy-go/internal/pkg/config"
	"github.com/taskbuddy/taskbuddy-go/pkg/logger"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("load configuration")
	}
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	store := devserver.NewStore()
	tokens := devserver.NewTokens(cfg.JWTSecret, 24*time.Hour)
	hub := devserver.NewHub(log)
	notifier := devserver.NewNotifier(0, store, hub, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	notifier.Start(ctx)

	e := devserver.NewRouter(store, tokens, hub, notifier, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("dev server listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Info().Err(err).Msg("server stopped")
	}
}
