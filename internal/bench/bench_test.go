package bench

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/solver"
	"github.com/vancomm/probasweeper/internal/trace"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func beginner(games, workers int) Config {
	return Config{
		Games:     games,
		Workers:   workers,
		Seed:      1,
		Player:    solver.KindProba,
		Params:    mines.GameParams{Width: 9, Height: 9, MineCount: 10},
		Estimator: solver.DefaultEstimatorParams(),
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func(workers int) (Summary, []Result) {
		r, err := NewRunner(beginner(40, workers), quietLogger(), nil)
		require.NoError(t, err)
		summary, results, err := r.Run(context.Background())
		require.NoError(t, err)
		return summary, results
	}

	serial, serialResults := run(1)
	parallel, parallelResults := run(8)

	assert.Equal(t, serialResults, parallelResults)
	assert.Equal(t, serial.Wins, parallel.Wins)
	assert.Equal(t, serial.Moves, parallel.Moves)
	assert.Equal(t, 40, serial.Games)

	for i, res := range serialResults {
		assert.EqualValues(t, i, res.ID)
		assert.Positive(t, res.Moves)
		if res.Won {
			assert.Equal(t, float64(81-10)/81, res.Progress)
		}
	}
}

func TestProbaBeatsRandom(t *testing.T) {
	cfg := beginner(60, 4)
	r, err := NewRunner(cfg, quietLogger(), nil)
	require.NoError(t, err)
	proba, _, err := r.Run(context.Background())
	require.NoError(t, err)

	cfg.Player = solver.KindRandom
	r, err = NewRunner(cfg, quietLogger(), nil)
	require.NoError(t, err)
	random, _, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, proba.Wins, random.Wins)
}

func TestRunWritesTrace(t *testing.T) {
	w := trace.NewWriter(filepath.Join(t.TempDir(), "trace.parquet"))
	r, err := NewRunner(beginner(5, 2), quietLogger(), w)
	require.NoError(t, err)
	summary, results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := trace.Read(w.Path())
	require.NoError(t, err)
	assert.Len(t, rows, summary.Moves)

	perGame := make(map[int64]int)
	for _, row := range rows {
		perGame[row.GameID]++
		assert.Equal(t, "proba", row.Player)
	}
	for _, res := range results {
		assert.Equal(t, res.Moves, perGame[res.ID])
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(beginner(3, 1), quietLogger(), nil)
	require.NoError(t, err)
	_, _, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigValidate(t *testing.T) {
	cfg := beginner(1, 1)
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Player = solver.KindHuman
	assert.ErrorIs(t, bad.Validate(), ErrInteractivePlayer)

	bad = cfg
	bad.Games = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Params.MineCount = 100
	assert.ErrorIs(t, bad.Validate(), mines.ErrInvalidConfiguration)

	_, err := NewRunner(bad, quietLogger(), nil)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Zero(t, Summary{}.WinRate())
	s := Summary{Games: 4, Wins: 1, Moves: 30}
	assert.Equal(t, 0.25, s.WinRate())
	assert.Equal(t, "4 games, 1 won (25.0%), 30 moves in 0s", s.String())
}
