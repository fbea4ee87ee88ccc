package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const envPrefix = "MINES_"

type Game struct {
	Size    int    `schema:"size"`
	Count   int    `schema:"count"`
	Seed    uint64 `schema:"seed"`
	LogFile string `schema:"log_file"`

	// SeedSet is true when MINES_SEED was given.
	SeedSet bool `schema:"-"`
}

func (g Game) Params() mines.GameParams {
	return mines.GameParams{Size: g.Size, MineCount: g.Count}
}

func environ() map[string][]string {
	values := make(map[string][]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		values[key] = append(values[key], value)
	}
	return values
}

// NewGame reads MINES_SIZE, MINES_COUNT, MINES_SEED and MINES_LOG_FILE.
// Unset variables keep the defaults of an 8x8 board with 10 mines.
func NewGame() (*Game, error) {
	game := &Game{
		Size:  mines.DefaultParams.Size,
		Count: mines.DefaultParams.MineCount,
	}

	values := environ()

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(game, values); err != nil {
		return nil, fmt.Errorf("unable to decode %s* env variables: %w", envPrefix, err)
	}
	_, game.SeedSet = values["seed"]

	return game, nil
}
