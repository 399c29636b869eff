package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/devserver"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

func main() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	logger.Info().
		Str("env", cfg.Env).
		Msg("initialized logger")

	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := devserver.NewStore(devserver.DefaultOwners(time.Now()))
	if cfg.Dev.DataFile != "" {
		todos, err := jsonstore.Load(cfg.Dev.DataFile)
		if err != nil {
			logger.Fatal().
				Err(err).
				Str("path", cfg.Dev.DataFile).
				Msg("failed to load snapshot")
		}
		store.Restore(todos)
		store.OnChange(func(todos []model.TodoItem) {
			if err := jsonstore.Save(cfg.Dev.DataFile, todos); err != nil {
				logger.Error().
					Err(err).
					Str("path", cfg.Dev.DataFile).
					Msg("failed to save snapshot")
			}
		})
		logger.Info().
			Str("path", cfg.Dev.DataFile).
			Int("todos", len(todos)).
			Msg("restored snapshot")
	}
	srv := devserver.New(logger, store)
	if err := srv.ListenAndServe(ctx, cfg.Dev.Addr, cfg.Dev.ShutdownTimeout); err != nil {
		logger.Fatal().
			Err(err).
			Msg("dev server stopped")
	}
	logger.Info().Msg("dev server stopped")
}
