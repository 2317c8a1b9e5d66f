package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/session"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("local database unavailable, the session will not be kept", "path", config.Database.Path, "error", err)
		opts.Session = session.New(nil, logger)
	} else {
		defer db.Close()
		opts.Session = session.New(repositories.NewSessionRepository(db), logger)
		opts.Cache = repositories.NewVideoCacheRepository(db)
	}

	if _, err := opts.Session.Load(); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:    "vidx",
		Usage:   "Browse and manage a video library from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		if db != nil {
			db.Close()
		}
		logger.Fatalf("application error: %v", err)
	}
}
