package mines

import (
	"math/rand/v2"
)

// placeMines picks mineCount distinct cells by drawing uniformly random
// coordinates and throwing away draws that land on a mine already placed.
func placeMines(size, mineCount int, r *rand.Rand) []bool {
	grid := make([]bool, size*size)

	placed, draws := 0, 0
	for placed < mineCount {
		draws++
		x, y := r.IntN(size), r.IntN(size)
		i := y*size + x
		if grid[i] {
			continue
		}
		grid[i] = true
		placed++
	}

	Log.WithField("size", size).
		WithField("mines", mineCount).
		WithField("draws", draws).
		Debug("placed mines")

	return grid
}

// countAdjacent fills in the mined-neighbour count of every safe cell.
func (b *Board) countAdjacent() {
	for i := range b.cells {
		if b.cells[i].Mine {
			continue
		}
		c := 0
		for n := range b.Neighbors(b.point(i)) {
			if b.cells[b.index(n.X, n.Y)].Mine {
				c++
			}
		}
		b.cells[i].Adjacent = c
	}
}
