// @title           BarkAndMeow API
// @version         1.0
// @description     Pet social network: profiles, feed, events with attendance, place directory and map.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        session_id
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/topgambajrjdeveloper/barkandmeow-sub000/docs"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/app"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/config"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/logging"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "barkandmeow",
		Usage: "BarkAndMeow pet social network API and tools.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			hashPasswordCommand(),
			eventsCommand(),
			placesCommand(),
			attendCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger, err := logging.New(cfg.App.LogLevel, cfg.App.Env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Info("config loaded, connecting to DB and Redis")

			application, err := app.New(c.Context, cfg, logger)
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			server := &http.Server{
				Addr:         "0.0.0.0:" + cfg.HTTP.Port,
				Handler:      application.Router(),
				ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
				WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
				IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			var serveErr error
			select {
			case <-quit:
				logger.Info("shutting down")
			case serveErr = <-errCh:
				logger.Error("HTTP server error", zap.Error(serveErr))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("shutdown", zap.Error(err))
			}
			if err := application.Close(ctx); err != nil {
				logger.Error("close", zap.Error(err))
			}
			return serveErr
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger, err := logging.New(cfg.App.LogLevel, cfg.App.Env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := app.Migrate(cfg.PG.DSN, logger); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
