package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/pixelbus/pixelbus/cmd/pixelbus/run"
	"github.com/pixelbus/pixelbus/internal/config"
	"github.com/pixelbus/pixelbus/internal/logging"
)

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "Run a game script",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to TOML configuration file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "script",
			Usage:   "Path to a script file (shortcut for a config with defaults)",
			Aliases: []string{"s"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Override the configured log level",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")
		scriptPath := cmd.String("script")

		if configPath == "" && scriptPath == "" {
			return cli.Exit("Either --config or --script flag is required", 1)
		}

		var cfg *config.Config
		if configPath != "" {
			loaded, err := config.NewConfig(configPath)
			if err != nil {
				return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
			}
			cfg = loaded
		} else {
			cfg = config.Default()
			cfg.Script.Path = scriptPath
		}

		if lvl := cmd.String("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}

		format, err := logging.ParseFormat(cfg.Logging.Format)
		if err != nil {
			return cli.Exit(err, 1)
		}
		handler, err := logging.SetupHandler(format, cfg.Logging.Level, nil)
		if err != nil {
			return cli.Exit(err, 1)
		}
		slog.SetDefault(slog.New(handler))

		if err := run.Run(ctx, slog.Default(), cfg); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}
