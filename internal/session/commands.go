package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad command arguments")
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Maps known commands to the allowed number of arguments
var commandNargs = map[string][2]int{
	"g": {0, 0},
	"o": {2, 2},
	"f": {2, 2},
	"c": {2, 2},
	"r": {0, 0},
	"n": {0, 1},
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("%w: first argument must be an int", ErrBadArguments)
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("%w: second argument must be an int", ErrBadArguments)
		return
	}
	return
}

// Execute runs newline separated commands against the session:
//
//	o x y    open a cell
//	f x y    toggle a flag
//	c x y    chord
//	r        forfeit
//	g        nothing, report the state
//	n [q]    new game, q is a query such as size=9&mines=10 or a
//	         seed such as 9:10
//
// It stops at the first failing command or once the game has ended and
// returns the events of every command that ran.
func (s *Session) Execute(text string) ([]Event, error) {
	var all []Event
	for _, line := range byPiece(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.logger.Debug("executing command", slog.String("command", line))
		events, err := s.executeCommand(line)
		all = append(all, events...)
		if err != nil {
			return all, fmt.Errorf("command %q: %w", line, err)
		}
		if s.Status() != Playing {
			break
		}
	}
	return all, nil
}

func (s *Session) executeCommand(c string) ([]Event, error) {
	parts := strings.Fields(c)
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return nil, ErrUnknownCommand
	}
	args := parts[1:]
	if len(args) < nargs[0] || len(args) > nargs[1] {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d",
			ErrBadArguments, parts[0], nargs[1], len(args))
	}
	switch parts[0] {
	case "g":
		return nil, nil
	case "o":
		x, y, err := parseXY(args)
		if err != nil {
			return nil, err
		}
		return s.Open(x, y)
	case "f":
		x, y, err := parseXY(args)
		if err != nil {
			return nil, err
		}
		return s.Flag(x, y)
	case "c":
		x, y, err := parseXY(args)
		if err != nil {
			return nil, err
		}
		return s.Chord(x, y)
	case "r":
		return s.Forfeit(), nil
	case "n":
		params, err := s.newGameParams(args)
		if err != nil {
			return nil, err
		}
		return s.Reset(params)
	}
	return nil, ErrUnknownCommand
}

// newGameParams reads the argument of "n", either a query such as
// size=9&mines=10 or a seed such as 9:10. Missing fields keep the values
// of the current game.
func (s *Session) newGameParams(args []string) (mines.GameParams, error) {
	params := s.Params()
	if len(args) == 0 {
		return params, nil
	}
	if !strings.Contains(args[0], "=") {
		p, err := mines.ParseSeed(args[0])
		if err != nil {
			return params, fmt.Errorf("%w: %w", ErrBadArguments, err)
		}
		return *p, nil
	}
	query, err := url.ParseQuery(args[0])
	if err != nil {
		return params, fmt.Errorf("%w: %w", ErrBadArguments, err)
	}
	if err := decoder.Decode(&params, query); err != nil {
		return params, fmt.Errorf("%w: %w", ErrBadArguments, err)
	}
	return params, nil
}
