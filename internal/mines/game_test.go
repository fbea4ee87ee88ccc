package mines

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func naiveAdjacent(b *Board, x, y int) (count int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c, ok := b.Cell(x+dx, y+dy); ok && c.Mine {
				count++
			}
		}
	}
	return
}

func centerMineBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoardWithMines(5, []Point{{2, 2}})
	require.NoError(t, err)
	return b
}

func TestNewBoardInvalidConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{"no mines", GameParams{Size: 8, MineCount: 0}},
		{"negative mines", GameParams{Size: 8, MineCount: -3}},
		{"all mines", GameParams{Size: 8, MineCount: 64}},
		{"too many mines", GameParams{Size: 4, MineCount: 20}},
		{"zero size", GameParams{Size: 0, MineCount: 1}},
		{"negative size", GameParams{Size: -8, MineCount: 10}},
		{"size above max", GameParams{Size: MaxSize + 1, MineCount: 1}},
		{"size square overflows", GameParams{Size: 1<<32 + 1, MineCount: 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			b, err := NewBoard(test.params, rand.New(rand.NewPCG(1, 2)))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Nil(t, b)
		})
	}
}

func TestNewBoardMineCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{"8x8(10)", DefaultParams},
		{"5x5(24)", GameParams{Size: 5, MineCount: 24}},
		{"9x9(35)", GameParams{Size: 9, MineCount: 35}},
		{"16x16(40)", GameParams{Size: 16, MineCount: 40}},
		{"2x2(1)", GameParams{Size: 2, MineCount: 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for range 50 {
				b, err := NewBoard(test.params, r)
				require.NoError(t, err)

				mines := 0
				for y := range b.Size {
					for x := range b.Size {
						c, ok := b.Cell(x, y)
						require.True(t, ok)
						assert.False(t, c.Opened)
						assert.False(t, c.Flagged)
						if c.Mine {
							mines++
						}
					}
				}
				assert.Equal(t, test.params.MineCount, mines)
				revealed := b.RevealAllMines()
				assert.Len(t, revealed, test.params.MineCount)
				for _, p := range revealed {
					c, ok := b.Cell(p.X, p.Y)
					require.True(t, ok)
					assert.True(t, c.Mine, "revealed %s holds no mine", p)
				}
			}
		})
	}
}

func TestAdjacentCounts(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4))
	for range 100 {
		b, err := NewBoard(GameParams{Size: 10, MineCount: 25}, r)
		require.NoError(t, err)
		for y := range b.Size {
			for x := range b.Size {
				c, _ := b.Cell(x, y)
				if c.Mine {
					continue
				}
				assert.Equal(t, naiveAdjacent(b, x, y), c.Adjacent, "cell %d:%d", x, y)
				assert.GreaterOrEqual(t, c.Adjacent, 0)
				assert.LessOrEqual(t, c.Adjacent, 8)
			}
		}
	}
}

func TestNewBoardDeterministic(t *testing.T) {
	t.Parallel()

	a, err := NewBoard(DefaultParams, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	b, err := NewBoard(DefaultParams, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	assert.Equal(t, a.RevealAllMines(), b.RevealAllMines())
}

func TestNewBoardWithMinesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  int
		mines []Point
	}{
		{"empty", 5, nil},
		{"out of bounds", 5, []Point{{5, 0}}},
		{"negative", 5, []Point{{0, -1}}},
		{"duplicate", 5, []Point{{1, 1}, {1, 1}}},
		{"full", 2, []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBoardWithMines(test.size, test.mines)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestAdjacentRingAroundCenterMine(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	for y := range 5 {
		for x := range 5 {
			c, _ := b.Cell(x, y)
			switch {
			case x == 2 && y == 2:
				assert.True(t, c.Mine)
			case 1 <= x && x <= 3 && 1 <= y && y <= 3:
				assert.Equal(t, 1, c.Adjacent, "cell %d:%d", x, y)
			default:
				assert.Equal(t, 0, c.Adjacent, "cell %d:%d", x, y)
			}
		}
	}
}

func TestFloodFillFromCorner(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	res, err := b.Open(0, 0)
	require.NoError(t, err)

	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 0, res.Count)
	assert.Len(t, res.Opened, 24)
	assert.Equal(t, Point{0, 0}, res.Opened[0])

	mine, _ := b.Cell(2, 2)
	assert.False(t, mine.Opened)
	for _, p := range res.Opened {
		assert.NotEqual(t, Point{2, 2}, p)
	}

	// every safe cell is reachable, so the flood wins the game
	assert.True(t, b.IsSolved())
	assert.False(t, b.Detonated())
	assert.Equal(t, 0, b.Remaining())
}

func TestOpenMineDetonates(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	res, err := b.Open(2, 2)
	require.NoError(t, err)

	assert.Equal(t, Detonated, res.Outcome)
	assert.Equal(t, []Point{{2, 2}}, res.Opened)
	assert.True(t, b.Detonated())
	assert.True(t, b.Over())
	assert.False(t, b.IsSolved())
	assert.Equal(t, []Point{{2, 2}}, b.RevealAllMines())

	_, err = b.Open(0, 0)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = b.ToggleFlag(0, 0)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = b.Chord(1, 1)
	assert.ErrorIs(t, err, ErrGameOver)

	corner, _ := b.Cell(0, 0)
	assert.False(t, corner.Opened)
	assert.Equal(t, ExplodedMine, b.PlayerGrid()[2*5+2])
}

func TestOpenNumberedCellOpensOnlyItself(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	res, err := b.Open(1, 1)
	require.NoError(t, err)

	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []Point{{1, 1}}, res.Opened)
	assert.Equal(t, 23, b.Remaining())
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	_, err := b.Open(1, 1)
	require.NoError(t, err)
	before := b.PlayerGrid()

	res, err := b.Open(1, 1)
	require.NoError(t, err)
	assert.Equal(t, NoChange, res.Outcome)
	assert.Empty(t, res.Opened)
	assert.Equal(t, before, b.PlayerGrid())
	assert.Equal(t, 23, b.Remaining())
}

func TestFlagging(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)

	changed, err := b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, b.Flags())
	assert.Equal(t, Flagged, b.PlayerGrid()[1*5+1])

	res, err := b.Open(1, 1)
	require.NoError(t, err)
	assert.Equal(t, NoChange, res.Outcome)
	c, _ := b.Cell(1, 1)
	assert.False(t, c.Opened)

	changed, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, b.Flags())

	res, err = b.Open(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Revealed, res.Outcome)

	changed, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	c, _ = b.Cell(1, 1)
	assert.False(t, c.Flagged)
	assert.Equal(t, 0, b.Flags())
}

func TestFloodSkipsFlaggedCells(t *testing.T) {
	t.Parallel()

	b, err := NewBoardWithMines(5, []Point{{4, 4}})
	require.NoError(t, err)

	_, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)

	res, err := b.Open(0, 0)
	require.NoError(t, err)
	assert.Len(t, res.Opened, 23)
	c, _ := b.Cell(1, 1)
	assert.False(t, c.Opened)
	assert.True(t, c.Flagged)
	assert.False(t, b.IsSolved())

	_, err = b.ToggleFlag(1, 1)
	require.NoError(t, err)
	res, err = b.Open(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 1}}, res.Opened)
	assert.True(t, b.IsSolved())
}

func TestFloodRegionIsBounded(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(5, 6))
	for range 200 {
		b, err := NewBoard(GameParams{Size: 12, MineCount: 20}, r)
		require.NoError(t, err)

		x, y := r.IntN(b.Size), r.IntN(b.Size)
		if c, _ := b.Cell(x, y); c.Mine {
			continue
		}
		res, err := b.Open(x, y)
		require.NoError(t, err)
		require.Equal(t, Revealed, res.Outcome)

		seen := make(map[Point]bool)
		for _, p := range res.Opened {
			assert.False(t, seen[p], "cell %s opened twice", p)
			seen[p] = true

			c, _ := b.Cell(p.X, p.Y)
			assert.False(t, c.Mine)
			assert.True(t, c.Opened)
			if c.Adjacent > 0 {
				continue
			}
			for n := range b.Neighbors(p) {
				nc, _ := b.Cell(n.X, n.Y)
				assert.True(t, nc.Opened, "neighbour %s of empty cell %s left closed", n, p)
			}
		}
	}
}

func TestFloodLargeBoard(t *testing.T) {
	t.Parallel()

	const size = 400
	b, err := NewBoardWithMines(size, []Point{{size - 1, size - 1}})
	require.NoError(t, err)

	res, err := b.Open(0, 0)
	require.NoError(t, err)
	assert.Len(t, res.Opened, size*size-1)
	assert.True(t, b.IsSolved())
}

func TestOutOfBounds(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	points := []Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {100, 100}}
	for _, p := range points {
		_, err := b.Open(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = b.ToggleFlag(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = b.Chord(p.X, p.Y)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, ok := b.Cell(p.X, p.Y)
		assert.False(t, ok)
	}
	assert.Equal(t, 24, b.Remaining())
}

func TestNeighbors(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	tests := []struct {
		p    Point
		want int
	}{
		{Point{0, 0}, 3},
		{Point{4, 4}, 3},
		{Point{2, 0}, 5},
		{Point{0, 3}, 5},
		{Point{2, 2}, 8},
	}
	for _, test := range tests {
		n := 0
		for range b.Neighbors(test.p) {
			n++
		}
		assert.Equal(t, test.want, n, "neighbours of %s", test.p)
	}
}

func TestChord(t *testing.T) {
	t.Parallel()

	t.Run("correct flag", func(t *testing.T) {
		t.Parallel()
		b := centerMineBoard(t)
		_, err := b.Open(1, 1)
		require.NoError(t, err)
		_, err = b.ToggleFlag(2, 2)
		require.NoError(t, err)

		res, err := b.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Revealed, res.Outcome)
		assert.Len(t, res.Opened, 23)
		assert.True(t, b.IsSolved())
		assert.Equal(t, CorrectlyFlagged, b.PlayerGrid()[2*5+2])
	})

	t.Run("missing flag", func(t *testing.T) {
		t.Parallel()
		b := centerMineBoard(t)
		_, err := b.Open(1, 1)
		require.NoError(t, err)

		res, err := b.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, NoChange, res.Outcome)
		assert.Equal(t, 23, b.Remaining())
	})

	t.Run("wrong flag", func(t *testing.T) {
		t.Parallel()
		b := centerMineBoard(t)
		_, err := b.Open(1, 1)
		require.NoError(t, err)
		_, err = b.ToggleFlag(0, 0)
		require.NoError(t, err)

		res, err := b.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Detonated, res.Outcome)
		assert.True(t, b.Detonated())

		grid := b.PlayerGrid()
		assert.Equal(t, FalselyFlagged, grid[0])
		assert.Equal(t, ExplodedMine, grid[2*5+2])
	})

	t.Run("closed cell", func(t *testing.T) {
		t.Parallel()
		b := centerMineBoard(t)
		res, err := b.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, NoChange, res.Outcome)
	})
}

func TestPlayerGrid(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	assert.Equal(t, ". . . . . \n"+
		". . . . . \n"+
		". . . . . \n"+
		". . . . . \n"+
		". . . . . \n", b.String())

	_, err := b.Open(1, 1)
	require.NoError(t, err)
	_, err = b.ToggleFlag(3, 3)
	require.NoError(t, err)
	assert.Equal(t, ". . . . . \n"+
		". 1 . . . \n"+
		". . . . . \n"+
		". . . F . \n"+
		". . . . . \n", b.String())

	_, err = b.Open(2, 2)
	require.NoError(t, err)
	assert.Equal(t, ". . . . . \n"+
		". 1 . . . \n"+
		". . X . . \n"+
		". . . x . \n"+
		". . . . . \n", b.String())
}

func TestForfeit(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	_, err := b.ToggleFlag(0, 0)
	require.NoError(t, err)

	b.Forfeit()
	assert.True(t, b.Forfeited())
	assert.True(t, b.Over())
	assert.False(t, b.Detonated())
	assert.False(t, b.IsSolved())

	grid := b.PlayerGrid()
	assert.Equal(t, FalselyFlagged, grid[0])
	assert.Equal(t, UnflaggedMine, grid[2*5+2])
	assert.Equal(t, Unknown, grid[1*5+1])

	_, err = b.Open(1, 1)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestForfeitFinishedGame(t *testing.T) {
	t.Parallel()

	b := centerMineBoard(t)
	_, err := b.Open(0, 0)
	require.NoError(t, err)
	require.True(t, b.IsSolved())

	b.Forfeit()
	assert.False(t, b.Forfeited())
	assert.True(t, b.IsSolved())
}
