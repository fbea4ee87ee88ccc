package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/minesweeper-engine/internal/console"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
	"github.com/vancomm/minesweeper-engine/internal/tui"
)

type Options struct {
	Params mines.GameParams
	Seed   uint64
	Seeded bool

	// Plain plays over In and Out instead of a terminal screen. JSON
	// implies Plain.
	Plain bool
	JSON  bool

	In  io.Reader
	Out io.Writer

	// Screen is used instead of the terminal when set. It must not be
	// initialized yet.
	Screen tcell.Screen
}

type App struct {
	logger *slog.Logger
	opts   Options
}

func New(logger *slog.Logger, opts Options) *App {
	return &App{
		logger: logger,
		opts:   opts,
	}
}

// Start plays one session until the player quits or ctx is done.
func (a *App) Start(ctx context.Context) error {
	s, err := session.New(
		a.opts.Params, createRand(a.opts.Seed, a.opts.Seeded), a.logger,
	)
	if err != nil {
		return fmt.Errorf("unable to start game: %w", err)
	}

	if a.opts.Plain || a.opts.JSON {
		a.logger.Debug("playing on console", slog.Bool("json", a.opts.JSON))
		return console.New(s, a.opts.Out, a.logger, a.opts.JSON).Run(ctx, a.opts.In)
	}

	screen := a.opts.Screen
	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("unable to create screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to init screen: %w", err)
	}
	defer screen.Fini()

	ui := tui.New(screen, s, a.logger)
	defer ui.Close()

	a.logger.Debug("playing on screen")
	return ui.Run(ctx)
}
