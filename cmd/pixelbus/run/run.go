// Package run assembles a complete pixelbus process: a channel pair, the
// script host on the background side, and the frame loop on the main side,
// all under one supervision tree.
package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/pixelbus/pixelbus/internal/channel"
	"github.com/pixelbus/pixelbus/internal/config"
	"github.com/pixelbus/pixelbus/internal/frameloop"
	"github.com/pixelbus/pixelbus/internal/host"
	"github.com/pixelbus/pixelbus/internal/input"
	"github.com/pixelbus/pixelbus/internal/render"
	"github.com/pixelbus/pixelbus/internal/wire"
)

// Run starts a script run from a validated config and blocks until the
// context ends or the supervisor shuts the tree down.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	logHandler := logger.Handler()

	mode, err := channel.ParseMode(cfg.Channel.Mode)
	if err != nil {
		return err
	}
	pair, err := channel.NewPair(mode, channel.WithEndOptions(channel.WithLogHandler(logHandler)))
	if err != nil {
		return fmt.Errorf("failed to create channel pair: %w", err)
	}
	defer pair.Close()
	logger.Info("Channel ready", "mode", pair.Mode)

	var assets []host.Asset
	for _, a := range cfg.Assets {
		assets = append(assets, host.Asset{Name: a.Name, Path: a.Path})
	}

	hostRunner, err := host.NewRunner(
		cfg.Script.Path,
		pair.Background,
		host.WithRunnerLogHandler(logHandler),
		host.WithAssets(assets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create script host: %w", err)
	}

	// Without an embedding surface the renderer traces command batches.
	renderer := render.NewTracer(logger)

	loopRunner, err := frameloop.NewRunner(
		pair.Main,
		input.New(),
		renderer,
		frameloop.WithContext(ctx),
		frameloop.WithLogHandler(logHandler),
		frameloop.WithFPS(cfg.Canvas.FPS),
		frameloop.WithCanvasSize(wire.CanvasSize{
			Width:  cfg.Canvas.Width,
			Height: cfg.Canvas.Height,
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create frame loop: %w", err)
	}

	// Order is important: the host must be waiting before frames tick.
	runnables := []supervisor.Runnable{
		hostRunner,
		loopRunner,
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run: %w", err)
	}

	logger.Info("Run complete")
	return nil
}
