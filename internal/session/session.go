package session

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type subscriber struct {
	id int
	fn func(Event)
}

// Session owns the board of one player. It is not safe for concurrent
// use; a single front end drives it.
type Session struct {
	id        uuid.UUID
	logger    *slog.Logger
	rnd       *rand.Rand
	board     *mines.Board
	startedAt time.Time
	endedAt   *time.Time
	subs      []subscriber
	nextSub   int
}

func New(params mines.GameParams, rnd *rand.Rand, logger *slog.Logger) (*Session, error) {
	board, err := mines.NewBoard(params, rnd)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	s := &Session{
		id:        id,
		logger:    logger.With(slog.String("session", id.String())),
		rnd:       rnd,
		board:     board,
		startedAt: time.Now().UTC(),
	}
	s.logger.Info("game started", slog.String("params", params.Seed()))
	return s, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Board() *mines.Board {
	return s.board
}

func (s *Session) Params() mines.GameParams {
	return s.board.GameParams
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) EndedAt() *time.Time {
	return s.endedAt
}

func (s *Session) Status() Status {
	switch {
	case s.board.Detonated() || s.board.Forfeited():
		return Lost
	case s.board.IsSolved():
		return Won
	default:
		return Playing
	}
}

// Subscribe registers fn to receive every event the session publishes.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) publish(events []Event) {
	for _, e := range events {
		for _, sub := range s.subs {
			sub.fn(e)
		}
	}
}

// Reset discards the current board and starts a new game. The current
// game is kept if params are invalid.
func (s *Session) Reset(params mines.GameParams) ([]Event, error) {
	board, err := mines.NewBoard(params, s.rnd)
	if err != nil {
		return nil, err
	}
	s.board = board
	s.startedAt = time.Now().UTC()
	s.endedAt = nil

	s.logger.Info("game started", slog.String("params", params.Seed()))

	events := []Event{{Kind: GameStarted}}
	s.publish(events)
	return events, nil
}

func (s *Session) Open(x, y int) ([]Event, error) {
	res, err := s.board.Open(x, y)
	if err != nil {
		return nil, err
	}
	return s.finishMove(res), nil
}

func (s *Session) Chord(x, y int) ([]Event, error) {
	res, err := s.board.Chord(x, y)
	if err != nil {
		return nil, err
	}
	return s.finishMove(res), nil
}

func (s *Session) Flag(x, y int) ([]Event, error) {
	changed, err := s.board.ToggleFlag(x, y)
	if err != nil || !changed {
		return nil, err
	}
	kind := CellUnflagged
	if c, _ := s.board.Cell(x, y); c.Flagged {
		kind = CellFlagged
	}
	events := []Event{{Kind: kind, Point: mines.Point{X: x, Y: y}}}
	s.publish(events)
	return events, nil
}

// Forfeit ends a running game as lost and reveals every mine.
func (s *Session) Forfeit() []Event {
	if s.Status() != Playing {
		return nil
	}
	s.board.Forfeit()
	events := s.endEvents()
	s.publish(events)
	return events
}

func (s *Session) finishMove(res mines.RevealResult) []Event {
	events := make([]Event, 0, len(res.Opened))
	for _, p := range res.Opened {
		c, _ := s.board.Cell(p.X, p.Y)
		if c.Mine {
			events = append(events, Event{Kind: MineDetonated, Point: p})
		} else {
			events = append(events, Event{Kind: CellOpened, Point: p, Count: c.Adjacent})
		}
	}
	if s.Status() != Playing {
		events = append(events, s.endEvents()...)
	}
	s.publish(events)
	return events
}

func (s *Session) endEvents() []Event {
	now := time.Now().UTC()
	s.endedAt = &now

	status := s.Status()
	s.logger.Info("game over",
		slog.String("status", status.String()),
		slog.Duration("playtime", now.Sub(s.startedAt)),
	)

	if status == Won {
		return []Event{{Kind: GameWon}}
	}

	var events []Event
	for _, p := range s.board.RevealAllMines() {
		if c, _ := s.board.Cell(p.X, p.Y); c.Opened {
			continue
		}
		events = append(events, Event{Kind: MineRevealed, Point: p})
	}
	return append(events, Event{Kind: GameLost})
}
