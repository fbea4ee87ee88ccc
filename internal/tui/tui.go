package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

const (
	boardX = 2
	boardY = 2

	helpText = "arrows/hjkl move  space open  f flag  c chord  n new  r give up  q quit"
)

var numberColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorNavy,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorWhite,
	8: tcell.ColorGray,
}

// UI renders a session on a terminal screen and turns key presses and
// mouse clicks into moves.
type UI struct {
	screen      tcell.Screen
	session     *session.Session
	logger      *slog.Logger
	cursor      mines.Point
	message     string
	buttons     tcell.ButtonMask
	unsubscribe func()
}

func New(screen tcell.Screen, s *session.Session, logger *slog.Logger) *UI {
	ui := &UI{
		screen:  screen,
		session: s,
		logger:  logger,
	}
	ui.unsubscribe = s.Subscribe(ui.onEvent)
	return ui
}

func (ui *UI) Close() {
	ui.unsubscribe()
}

func (ui *UI) Cursor() mines.Point {
	return ui.cursor
}

func (ui *UI) Message() string {
	return ui.message
}

func (ui *UI) onEvent(e session.Event) {
	switch e.Kind {
	case session.GameStarted:
		ui.message = ""
		size := ui.session.Params().Size
		ui.cursor.X = min(ui.cursor.X, size-1)
		ui.cursor.Y = min(ui.cursor.Y, size-1)
	case session.GameWon:
		ui.message = "Cleared! Press n for a new game."
	case session.GameLost:
		ui.message = "Boom! Press n for a new game."
	}
}

// Run draws the board and handles events until the player quits or ctx
// is done.
func (ui *UI) Run(ctx context.Context) error {
	ui.screen.EnableMouse()
	ui.Draw()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := ui.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if ui.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent applies ev and redraws. It reports whether the player asked
// to quit.
func (ui *UI) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		ui.screen.Sync()
	case *tcell.EventKey:
		if ui.handleKey(ev) {
			return true
		}
	case *tcell.EventMouse:
		ui.handleMouse(ev)
	}
	ui.Draw()
	return false
}

func (ui *UI) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		ui.move(0, -1)
	case tcell.KeyDown:
		ui.move(0, 1)
	case tcell.KeyLeft:
		ui.move(-1, 0)
	case tcell.KeyRight:
		ui.move(1, 0)
	case tcell.KeyEnter:
		ui.act(ui.session.Open(ui.cursor.X, ui.cursor.Y))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'k':
			ui.move(0, -1)
		case 'j':
			ui.move(0, 1)
		case 'h':
			ui.move(-1, 0)
		case 'l':
			ui.move(1, 0)
		case ' ':
			ui.act(ui.session.Open(ui.cursor.X, ui.cursor.Y))
		case 'f', 'F':
			ui.act(ui.session.Flag(ui.cursor.X, ui.cursor.Y))
		case 'c', 'C':
			ui.act(ui.session.Chord(ui.cursor.X, ui.cursor.Y))
		case 'r', 'R':
			ui.act(ui.session.Forfeit(), nil)
		case 'n', 'N':
			ui.act(ui.session.Reset(ui.session.Params()))
		}
	}
	return false
}

func (ui *UI) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2)
	pressed := buttons &^ ui.buttons
	ui.buttons = buttons
	if pressed == tcell.ButtonNone {
		return
	}

	p, ok := ui.cellAt(ev.Position())
	if !ok {
		return
	}
	ui.cursor = p

	switch {
	case pressed&tcell.Button1 != 0:
		ui.act(ui.session.Open(p.X, p.Y))
	case pressed&tcell.Button2 != 0:
		ui.act(ui.session.Flag(p.X, p.Y))
	}
}

func (ui *UI) cellAt(sx, sy int) (mines.Point, bool) {
	if sx < boardX || sy < boardY {
		return mines.Point{}, false
	}
	p := mines.Point{X: (sx - boardX) / 2, Y: sy - boardY}
	return p, ui.session.Board().InBounds(p.X, p.Y)
}

func (ui *UI) move(dx, dy int) {
	p := mines.Point{X: ui.cursor.X + dx, Y: ui.cursor.Y + dy}
	if ui.session.Board().InBounds(p.X, p.Y) {
		ui.cursor = p
	}
}

func (ui *UI) act(_ []session.Event, err error) {
	switch {
	case err == nil:
	case errors.Is(err, mines.ErrGameOver):
		ui.message = "Game over. Press n for a new game."
	default:
		ui.logger.Error("move failed", slog.Any("error", err))
		ui.message = err.Error()
	}
}

func (ui *UI) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		ui.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func cellStyle(state mines.CellState) (rune, tcell.Style) {
	style := tcell.StyleDefault
	r := []rune(state.String())[0]
	switch {
	case state == mines.Unknown:
		style = style.Foreground(tcell.ColorGray)
	case state == mines.Flagged, state == mines.CorrectlyFlagged:
		style = style.Foreground(tcell.ColorRed).Bold(true)
	case 1 <= state && state <= 8:
		style = style.Foreground(numberColors[state]).Bold(true)
	case state == mines.ExplodedMine:
		style = style.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	case state == mines.FalselyFlagged, state == mines.UnflaggedMine:
		style = style.Foreground(tcell.ColorYellow)
	}
	return r, style
}

func (ui *UI) Draw() {
	ui.screen.Clear()

	board := ui.session.Board()
	header := fmt.Sprintf("Mines: %d  Flags: %d  %s",
		board.MineCount, board.Flags(), ui.session.Status())
	ui.drawText(0, 0, tcell.StyleDefault.Bold(true), header)

	grid := board.PlayerGrid()
	for y := range board.Size {
		for x := range board.Size {
			r, style := cellStyle(grid[y*board.Size+x])
			if ui.cursor.X == x && ui.cursor.Y == y {
				style = style.Reverse(true)
			}
			ui.screen.SetContent(boardX+2*x, boardY+y, r, nil, style)
		}
	}

	y := boardY + board.Size + 1
	if ui.message != "" {
		ui.drawText(0, y, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true), ui.message)
	}
	ui.drawText(0, y+1, tcell.StyleDefault.Foreground(tcell.ColorGray), helpText)

	ui.screen.Show()
}
