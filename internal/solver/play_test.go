package solver

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/probasweeper/internal/mines"
)

func TestPlayFinishesGame(t *testing.T) {
	params := mines.GameParams{Width: 9, Height: 9, MineCount: 10}
	for seed := range uint64(20) {
		r := rand.New(rand.NewPCG(seed, 2))
		g, err := mines.NewGame(params, r)
		require.NoError(t, err)

		var events []mines.Event
		g.SetNotifier(mines.NotifierFunc(func(e mines.Event) {
			events = append(events, e)
		}))

		p := NewProbaPlayer("proba", r, DefaultEstimatorParams())
		require.NoError(t, Play(context.Background(), g, p))

		assert.True(t, g.IsOver())
		assert.Equal(t, "proba", g.Player)
		require.Len(t, events, g.Moves)
		last := events[len(events)-1]
		assert.True(t, last.Over)
		assert.Equal(t, g.IsWon(), last.Won)
	}
}

func TestPlayRandomPlayer(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 2))
	g, err := mines.NewGame(mines.GameParams{Width: 5, Height: 5, MineCount: 5}, r)
	require.NoError(t, err)

	require.NoError(t, Play(context.Background(), g, NewRandomPlayer("random", r)))
	assert.True(t, g.IsOver())
}

func TestPlayKeepsPlayerName(t *testing.T) {
	g := mines.NewGameFromGrid(board(t, ". *"))
	g.Player = "carol"
	require.NoError(t, Play(context.Background(), g, NewProbaPlayer("proba", rand.New(rand.NewPCG(1, 2)), DefaultEstimatorParams())))
	assert.Equal(t, "carol", g.Player)
}

func TestPlayHumanDefers(t *testing.T) {
	g := mines.NewGameFromGrid(board(t, ". *"))
	err := Play(context.Background(), g, NewHumanPlayer("alice"))
	assert.ErrorIs(t, err, ErrDeferred)
	assert.Zero(t, g.Moves)
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := mines.NewGameFromGrid(board(t, ". *"))
	err := Play(ctx, g, NewRandomPlayer("random", rand.New(rand.NewPCG(1, 2))))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, g.IsOver())
}

type stubbornPlayer struct{}

func (stubbornPlayer) Name() string { return "stubborn" }

func (stubbornPlayer) NextMove(*mines.Grid) (mines.Move, bool) {
	return mines.Move{X: 5, Y: 5, Action: mines.Reveal}, true
}

func TestPlayRejectedMove(t *testing.T) {
	g := mines.NewGameFromGrid(board(t, ". *"))
	err := Play(context.Background(), g, stubbornPlayer{})
	assert.ErrorIs(t, err, mines.ErrOutOfBounds)
	assert.ErrorContains(t, err, "stubborn played (5, 5) with action: reveal")
}
