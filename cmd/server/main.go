package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/robotgame/internal/config"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
	"github.com/zeusync/robotgame/internal/injector"
	"github.com/zeusync/robotgame/internal/scripts"
)

func main() {
	configPath := flag.String("config", "", "path to a match config (YAML); defaults are used when empty")
	listScripts := flag.Bool("scripts", false, "print the built-in scripts and exit")
	flag.Parse()

	if *listScripts {
		fmt.Println(strings.Join(scripts.Names(), "\n"))
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "robotgame:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		log.String("match", cfg.MatchID),
		log.Int("world_size", spatial.WorldSize),
		log.Int("agents", len(cfg.Agents)),
		log.Duration("tick_period", cfg.TickPeriod),
		log.Duration("think_deadline", cfg.ThinkDeadline),
		log.Int64("max_ticks", cfg.MaxTicks),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The spectator lives as long as the match.
	spectatorCtx, stopSpectator := context.WithCancel(ctx)
	defer stopSpectator()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopSpectator()
		return app.Orchestrator.Run(gctx)
	})
	if app.Spectator != nil {
		g.Go(func() error {
			return app.Spectator.Run(spectatorCtx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if winner, ok := app.Orchestrator.Winner(); ok {
		logger.Info("winner", log.String("player", winner.Name), log.Tick(app.Orchestrator.Tick()))
	} else if app.Orchestrator.Ended() {
		logger.Info("match drawn", log.Tick(app.Orchestrator.Tick()))
	} else {
		logger.Info("match interrupted", log.Tick(app.Orchestrator.Tick()))
	}
	return nil
}
