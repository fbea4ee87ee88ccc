package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	testCases := []struct {
		params GameParams
		seed   string
	}{
		{DefaultParams, "8:10"},
		{GameParams{Size: 16, MineCount: 40}, "16:40"},
	}
	for _, test := range testCases {
		assert.Equal(t, test.seed, test.params.Seed())

		p, err := ParseSeed(test.seed)
		require.NoError(t, err)
		assert.Equal(t, test.params, *p)
	}
}

func TestParseSeedInvalid(t *testing.T) {
	for _, seed := range []string{"", "8", "a:b", "8:", "9:10:77", "9:10abc", " 9:10"} {
		_, err := ParseSeed(seed)
		assert.Error(t, err, "seed %q", seed)
	}
}

func TestPointInBounds(t *testing.T) {
	p := GameParams{Size: 3, MineCount: 1}
	assert.True(t, p.PointInBounds(0, 0))
	assert.True(t, p.PointInBounds(2, 2))
	assert.False(t, p.PointInBounds(3, 0))
	assert.False(t, p.PointInBounds(0, 3))
	assert.False(t, p.PointInBounds(-1, 1))
}
