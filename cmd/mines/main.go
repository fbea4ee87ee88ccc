package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/config"
)

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	// Env variables are the defaults, flags override them.
	cfg, err := config.NewGame()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mines:", err)
		os.Exit(2)
	}

	var plain, asJSON bool
	flag.IntVar(&cfg.Size, "size", cfg.Size, "board width and height")
	flag.IntVar(&cfg.Count, "mines", cfg.Count, "number of mines")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, random when unset")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to a rotated file")
	flag.BoolVar(&plain, "plain", false, "read commands from stdin instead of drawing a board")
	flag.BoolVar(&asJSON, "json", false, "like -plain but answer every command with JSON")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})

	screen := !plain && !asJSON
	logger, closeLog, err := setupLogging(cfg.LogFile, screen)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mines: unable to set up logging:", err)
		os.Exit(2)
	}

	logger.Debug("config",
		slog.Int("size", cfg.Size),
		slog.Int("mines", cfg.Count),
		slog.Bool("seeded", cfg.SeedSet),
		slog.Bool("screen", screen),
	)

	a := app.New(logger, app.Options{
		Params: cfg.Params(),
		Seed:   cfg.Seed,
		Seeded: cfg.SeedSet,
		Plain:  plain,
		JSON:   asJSON,
		In:     os.Stdin,
		Out:    os.Stdout,
	})

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		defer stop()
		return a.Start(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Debug("shutting down")
		return nil
	})

	err = g.Wait()
	closeLog()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("exit", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, "mines:", err)
		stop()
		os.Exit(1)
	}
}
