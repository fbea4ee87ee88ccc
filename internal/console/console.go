package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vancomm/minesweeper-engine/internal/session"
)

type ResponseDTO struct {
	Events []session.Event       `json:"events"`
	Game   *session.SnapshotDTO `json:"game"`
	Error  string                `json:"error,omitempty"`
}

// Console plays a session over a line-oriented stream: every input line
// is a command (see [session.Session.Execute]) and every command is
// answered with the new state of the board.
type Console struct {
	session *session.Session
	logger  *slog.Logger
	out     io.Writer
	json    bool
}

func New(s *session.Session, out io.Writer, logger *slog.Logger, asJSON bool) *Console {
	return &Console{
		session: s,
		logger:  logger,
		out:     out,
		json:    asJSON,
	}
}

func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	if err := c.write(nil, nil); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			if err := c.Handle(line); err != nil {
				return err
			}
		}
	}
}

// Handle executes one line and writes the response. Only write failures
// are returned; command errors are part of the response.
func (c *Console) Handle(line string) error {
	events, err := c.session.Execute(line)
	if err != nil {
		c.logger.Warn("command failed", slog.String("line", line), slog.Any("error", err))
	}
	return c.write(events, err)
}

func (c *Console) write(events []session.Event, cmdErr error) error {
	if c.json {
		resp := ResponseDTO{
			Events: events,
			Game:   c.session.Snapshot(),
		}
		if resp.Events == nil {
			resp.Events = []session.Event{}
		}
		if cmdErr != nil {
			resp.Error = cmdErr.Error()
		}
		return json.NewEncoder(c.out).Encode(resp)
	}

	if cmdErr != nil {
		if _, err := fmt.Fprintf(c.out, "error: %s\n", cmdErr); err != nil {
			return err
		}
	}
	board := c.session.Board()
	_, err := fmt.Fprintf(c.out, "%s%s  mines: %d  flags: %d\n",
		board, c.session.Status(), board.MineCount, board.Flags())
	return err
}
