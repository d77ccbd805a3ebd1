package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAt(t *testing.T) {
	g := NewGrid(4, 3)

	tests := []struct {
		x, y int
		ok   bool
	}{
		{0, 0, true},
		{3, 2, true},
		{4, 0, false},
		{0, 3, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, test := range tests {
		c, err := g.CellAt(test.x, test.y)
		if test.ok {
			require.NoError(t, err)
			assert.NotNil(t, c)
		} else {
			assert.ErrorIs(t, err, ErrOutOfBounds)
			assert.Nil(t, c)
		}
	}

	c, err := g.CellAt(2, 1)
	require.NoError(t, err)
	c.Flagged = true
	assert.True(t, g.Cells[1*4+2].Flagged, "CellAt must point into the grid")
}

func TestRandomCellInBounds(t *testing.T) {
	g := NewGrid(5, 2)
	r := rand.New(rand.NewPCG(1, 2))
	seen := make(map[[2]int]bool)
	for range 1000 {
		x, y := g.RandomCell(r)
		require.True(t, g.InBounds(x, y))
		seen[[2]int{x, y}] = true
	}
	assert.Len(t, seen, 10)
}

func TestNeighbors(t *testing.T) {
	g := NewGrid(3, 3)

	var got [][2]int
	for x, y := range g.Neighbors(1, 1) {
		got = append(got, [2]int{x, y})
	}
	assert.Equal(t, [][2]int{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}, got)

	got = got[:0]
	for x, y := range g.Neighbors(0, 0) {
		got = append(got, [2]int{x, y})
	}
	assert.Equal(t, [][2]int{{1, 0}, {0, 1}, {1, 1}}, got)

	single := NewGrid(1, 1)
	for range single.Neighbors(0, 0) {
		t.Fatal("a 1x1 grid has no neighbours")
	}
}

func TestCounts(t *testing.T) {
	g := NewGrid(2, 2)
	assert.Zero(t, g.RevealedCount())
	assert.Zero(t, g.FlaggedCount())
	assert.Zero(t, g.Progress())

	g.Cells[0].Revealed = true
	g.Cells[1].Flagged = true
	g.Cells[2].Revealed = true
	assert.Equal(t, 2, g.RevealedCount())
	assert.Equal(t, 1, g.FlaggedCount())
	assert.InDelta(t, 0.5, g.Progress(), 1e-9)
}

func TestGridString(t *testing.T) {
	g, err := LayoutGrid("*.", "..")
	require.NoError(t, err)
	g.Cells[0].Revealed = true
	g.Cells[1].Revealed = true
	g.Cells[2].Flagged = true
	assert.Equal(t, "M 1\nF ?\n", g.String())
}

func TestPlayerView(t *testing.T) {
	g, err := LayoutGrid("*.*", "...")
	require.NoError(t, err)
	g.Cells[0].Flagged = true // correct flag
	g.Cells[1].Revealed = true
	g.Cells[3].Flagged = true // wrong flag

	assert.Equal(t, []CellState{
		Flagged, 2, Unknown,
		Flagged, Unknown, Unknown,
	}, g.PlayerView(false))

	assert.Equal(t, []CellState{
		CorrectlyFlagged, 2, UnflaggedMine,
		FalselyFlagged, Unknown, Unknown,
	}, g.PlayerView(true))

	g.Cells[2].Revealed = true
	assert.Equal(t, ExplodedMine, g.PlayerView(false)[2])
}
