package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/probasweeper/internal/mines"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"human", "Random", "PROBA"} {
		_, err := ParseKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseKind("oracle")
	assert.ErrorContains(t, err, `unknown player kind "oracle"`)
}

func TestNewPlayer(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	params := DefaultEstimatorParams()

	tests := []struct {
		kind Kind
		want Player
	}{
		{KindHuman, HumanPlayer{}},
		{KindRandom, &RandomPlayer{}},
		{KindProba, &ProbaPlayer{}},
	}
	for _, test := range tests {
		p, err := NewPlayer(test.kind, "bob", r, params)
		require.NoError(t, err)
		assert.IsType(t, test.want, p)
		assert.Equal(t, "bob", p.Name())
	}

	_, err := NewPlayer("oracle", "bob", r, params)
	assert.Error(t, err)
}

func TestHumanPlayerDefers(t *testing.T) {
	_, ok := NewHumanPlayer("alice").NextMove(mines.NewGrid(3, 3))
	assert.False(t, ok)
}

func TestRandomPlayerSkipsClosedCells(t *testing.T) {
	p := NewRandomPlayer("random", rand.New(rand.NewPCG(1, 2)))
	rows := []string{
		"o F .",
		"f o *",
	}
	for range 50 {
		g := board(t, rows...)
		m, ok := p.NextMove(g)
		require.True(t, ok)
		assert.Equal(t, mines.Reveal, m.Action)
		assert.True(t, g.Cells[m.Y*g.Width+m.X].Hidden(), "picked %v", m)
	}

	_, ok := p.NextMove(board(t, "o F", "f o"))
	assert.False(t, ok)
}
