package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

type Cell struct {
	Mine     bool
	Adjacent int
	Opened   bool
	Flagged  bool
}

type Outcome int

const (
	NoChange Outcome = iota
	Revealed
	Detonated
)

func (o Outcome) String() string {
	switch o {
	case NoChange:
		return "no change"
	case Revealed:
		return "revealed"
	case Detonated:
		return "detonated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// RevealResult describes what a single move changed. Opened lists the
// cells opened by the move in the order they were opened.
type RevealResult struct {
	Outcome Outcome
	Count   int
	Opened  []Point
}

type Board struct {
	GameParams
	cells     []Cell
	opened    int
	flags     int
	exploded  int
	forfeited bool
}

func NewBoard(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return newBoard(params, placeMines(params.Size, params.MineCount, r)), nil
}

// NewBoardWithMines builds a board with mines at exactly the given points.
func NewBoardWithMines(size int, mines []Point) (*Board, error) {
	params := GameParams{Size: size, MineCount: len(mines)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	grid := make([]bool, size*size)
	for _, p := range mines {
		if !params.PointInBounds(p.X, p.Y) {
			return nil, fmt.Errorf("%w: mine %s outside %dx%d board",
				ErrInvalidConfiguration, p, size, size)
		}
		i := p.Y*size + p.X
		if grid[i] {
			return nil, fmt.Errorf("%w: duplicate mine %s",
				ErrInvalidConfiguration, p)
		}
		grid[i] = true
	}
	return newBoard(params, grid), nil
}

func newBoard(params GameParams, grid []bool) *Board {
	b := &Board{
		GameParams: params,
		cells:      make([]Cell, len(grid)),
		exploded:   -1,
	}
	for i, mine := range grid {
		b.cells[i].Mine = mine
	}
	b.countAdjacent()
	return b
}

func (b *Board) index(x, y int) int {
	return y*b.Size + x
}

func (b *Board) point(i int) Point {
	return Point{X: i % b.Size, Y: i / b.Size}
}

func (b *Board) InBounds(x, y int) bool {
	return b.PointInBounds(x, y)
}

// Neighbors yields the in-bounds 8-connected neighbours of p.
func (b *Board) Neighbors(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := Point{X: p.X + dx, Y: p.Y + dy}
				if !b.InBounds(n.X, n.Y) {
					continue
				}
				if !yield(n) {
					return
				}
			}
		}
	}
}

func (b *Board) Cell(x, y int) (Cell, bool) {
	if !b.InBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[b.index(x, y)], true
}

func (b *Board) Detonated() bool {
	return b.exploded >= 0
}

func (b *Board) Forfeited() bool {
	return b.forfeited
}

func (b *Board) IsSolved() bool {
	return !b.Detonated() && !b.forfeited && b.Remaining() == 0
}

func (b *Board) Over() bool {
	return b.Detonated() || b.forfeited || b.IsSolved()
}

// Forfeit ends a running game as lost without opening any cell.
func (b *Board) Forfeit() {
	if !b.Over() {
		b.forfeited = true
	}
}

// Remaining is the number of safe cells still to be opened.
func (b *Board) Remaining() int {
	return b.Size*b.Size - b.MineCount - b.opened
}

func (b *Board) Flags() int {
	return b.flags
}

func (b *Board) checkMove(x, y int) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d board",
			ErrOutOfBounds, x, y, b.Size, b.Size)
	}
	if b.Over() {
		return ErrGameOver
	}
	return nil
}

func (b *Board) Open(x, y int) (RevealResult, error) {
	if err := b.checkMove(x, y); err != nil {
		return RevealResult{}, err
	}

	i := b.index(x, y)
	c := &b.cells[i]
	if c.Opened || c.Flagged {
		return RevealResult{Outcome: NoChange}, nil
	}

	if c.Mine {
		c.Opened = true
		b.exploded = i
		Log.WithField("cell", Point{x, y}).Debug("mine detonated")
		return RevealResult{
			Outcome: Detonated,
			Opened:  []Point{{X: x, Y: y}},
		}, nil
	}

	opened := b.flood(Point{X: x, Y: y})
	if len(opened) > 1 {
		Log.WithFields(logrus.Fields{
			"cell":   Point{x, y},
			"opened": len(opened),
		}).Debug("flood fill")
	}
	return RevealResult{
		Outcome: Revealed,
		Count:   c.Adjacent,
		Opened:  opened,
	}, nil
}

// flood opens start and, for every opened cell with no mined neighbours,
// all of its unopened unflagged neighbours.
func (b *Board) flood(start Point) []Point {
	var opened []Point
	todo := []Point{start}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		c := &b.cells[b.index(p.X, p.Y)]
		if c.Opened || c.Flagged || c.Mine {
			continue
		}
		c.Opened = true
		b.opened++
		opened = append(opened, p)

		if c.Adjacent != 0 {
			continue
		}
		for n := range b.Neighbors(p) {
			nc := b.cells[b.index(n.X, n.Y)]
			if !nc.Opened && !nc.Flagged {
				todo = append(todo, n)
			}
		}
	}
	return opened
}

// ToggleFlag reports whether the flag on (x, y) changed. Opened cells
// cannot be flagged.
func (b *Board) ToggleFlag(x, y int) (bool, error) {
	if err := b.checkMove(x, y); err != nil {
		return false, err
	}
	c := &b.cells[b.index(x, y)]
	if c.Opened {
		return false, nil
	}
	c.Flagged = !c.Flagged
	if c.Flagged {
		b.flags++
	} else {
		b.flags--
	}
	return true, nil
}

// Chord opens every unflagged neighbour of an opened cell once the
// number of flags around it matches its count.
func (b *Board) Chord(x, y int) (RevealResult, error) {
	if err := b.checkMove(x, y); err != nil {
		return RevealResult{}, err
	}

	c := b.cells[b.index(x, y)]
	if !c.Opened || c.Adjacent == 0 {
		return RevealResult{Outcome: NoChange}, nil
	}

	var todo []Point
	flagged := 0
	for n := range b.Neighbors(Point{X: x, Y: y}) {
		nc := b.cells[b.index(n.X, n.Y)]
		if nc.Flagged {
			flagged++
		} else if !nc.Opened {
			todo = append(todo, n)
		}
	}
	if flagged != c.Adjacent {
		return RevealResult{Outcome: NoChange}, nil
	}

	res := RevealResult{Outcome: NoChange, Count: c.Adjacent}
	for _, n := range todo {
		if b.Over() {
			break
		}
		r, err := b.Open(n.X, n.Y)
		if err != nil {
			return res, err
		}
		res.Opened = append(res.Opened, r.Opened...)
		if r.Outcome > res.Outcome {
			res.Outcome = r.Outcome
		}
	}
	return res, nil
}

// RevealAllMines returns every mine position in row-major order.
func (b *Board) RevealAllMines() []Point {
	mines := make([]Point, 0, b.MineCount)
	for i, c := range b.cells {
		if c.Mine {
			mines = append(mines, b.point(i))
		}
	}
	return mines
}

// PlayerGrid is the board as the player sees it. Once the game is over
// mines and flags are shown with their post-game states.
func (b *Board) PlayerGrid() Grid {
	over := b.Over()
	grid := make(Grid, len(b.cells))
	for i, c := range b.cells {
		switch {
		case i == b.exploded:
			grid[i] = ExplodedMine
		case c.Opened:
			grid[i] = CellState(c.Adjacent)
		case over && c.Mine && c.Flagged:
			grid[i] = CorrectlyFlagged
		case over && c.Mine:
			grid[i] = UnflaggedMine
		case over && c.Flagged:
			grid[i] = FalselyFlagged
		case c.Flagged:
			grid[i] = Flagged
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

func (b *Board) String() string {
	return b.PlayerGrid().ToString(b.Size)
}
