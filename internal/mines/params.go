package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSize bounds the board side so that Size*Size cannot overflow and a
// board fits in memory.
const MaxSize = 1 << 10

type GameParams struct {
	Size      int `schema:"size"`
	MineCount int `schema:"mines"`
}

var DefaultParams = GameParams{Size: 8, MineCount: 10}

func (p GameParams) Validate() error {
	if p.Size <= 0 || p.Size > MaxSize {
		return fmt.Errorf("%w: size must be in [1, %d] (size = %d)",
			ErrInvalidConfiguration, MaxSize, p.Size)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Size*p.Size {
		return fmt.Errorf("%w: mine count must be in (0, %d) (mine count = %d)",
			ErrInvalidConfiguration, p.Size*p.Size, p.MineCount)
	}
	return nil
}

// Seed encodes params as "size:mines".
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.Size, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	fields := strings.Split(seed, ":")
	if len(fields) != 2 {
		return nil, fmt.Errorf(`invalid game params seed "%s": want size:mines`, seed)
	}
	size, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf(`invalid game params seed "%s": %w`, seed, err)
	}
	mineCount, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf(`invalid game params seed "%s": %w`, seed, err)
	}
	return &GameParams{Size: size, MineCount: mineCount}, nil
}

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Size && 0 <= y && y < p.Size
}
