package session

import (
	"fmt"
	"slices"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type EventKind int

const (
	GameStarted EventKind = iota
	CellOpened
	CellFlagged
	CellUnflagged
	MineDetonated
	MineRevealed
	GameWon
	GameLost
)

var eventKindNames = [...]string{
	GameStarted:   "game_started",
	CellOpened:    "cell_opened",
	CellFlagged:   "cell_flagged",
	CellUnflagged: "cell_unflagged",
	MineDetonated: "mine_detonated",
	MineRevealed:  "mine_revealed",
	GameWon:       "game_won",
	GameLost:      "game_lost",
}

func (k EventKind) String() string {
	if 0 <= k && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// [EventKind] implements [encoding.TextMarshaler]
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// [EventKind] implements [encoding.TextUnmarshaler]
func (k *EventKind) UnmarshalText(text []byte) error {
	i := slices.Index(eventKindNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unknown event kind %q", text)
	}
	*k = EventKind(i)
	return nil
}

// Event is a single change a presenter has to render. Point and Count
// are only set for cell events; Count is the adjacency of an opened cell.
type Event struct {
	Kind  EventKind   `json:"kind"`
	Point mines.Point `json:"point"`
	Count int         `json:"count,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case GameStarted, GameWon, GameLost:
		return e.Kind.String()
	case CellOpened:
		return fmt.Sprintf("%s %s %d", e.Kind, e.Point, e.Count)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Point)
	}
}

type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// [Status] implements [encoding.TextUnmarshaler]
func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{Playing, Won, Lost} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
