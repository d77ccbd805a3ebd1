package trace

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/probasweeper/internal/mines"
)

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trace.parquet")
	w := NewWriter(path)

	grid, err := mines.LayoutGrid("..*")
	require.NoError(t, err)
	game := mines.NewGameFromGrid(grid)
	game.Player = "proba"
	game.SetNotifier(w.Notifier(Game{ID: 7, Seed: 99, Params: game.GameParams}))

	require.NoError(t, game.ApplyMove(2, 0, mines.Flag))
	require.NoError(t, game.ApplyMove(0, 0, mines.Reveal))
	require.NoError(t, game.ApplyMove(1, 0, mines.Reveal))
	require.True(t, game.IsWon())

	require.NoError(t, w.Close())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		GameID: 7, Seed: 99, Player: "proba",
		Width: 3, Height: 1, MineCount: 1,
		Turn: 1, X: 2, Y: 0, Action: "flag",
	}, rows[0])
	assert.Equal(t, "reveal", rows[1].Action)
	assert.False(t, rows[1].Over)
	assert.True(t, rows[2].Over)
	assert.True(t, rows[2].Won)
	assert.EqualValues(t, 3, rows[2].Turn)
}

func TestConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.parquet")
	w := NewWriter(path)

	var wg sync.WaitGroup
	for id := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(id), 2))
			for turn := range 50 {
				assert.NoError(t, w.Append(Row{GameID: int64(id), Turn: int32(turn), X: int32(r.IntN(9))}))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	rows, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, rows, 8*50)
}

func TestClosedWriter(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "trace.parquet"))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Append(Row{}), ErrClosed)
	assert.ErrorIs(t, w.Close(), ErrClosed)

	rows, err := Read(w.Path())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
