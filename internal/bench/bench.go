// Package bench plays many automated games concurrently and reports how the
// player did.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/solver"
	"github.com/vancomm/probasweeper/internal/trace"
)

var ErrInteractivePlayer = errors.New("interactive players cannot be benchmarked")

type Config struct {
	Games     int
	Workers   int
	Seed      uint64
	Player    solver.Kind
	Params    mines.GameParams
	Estimator solver.EstimatorParams
}

func (c Config) Validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Player == solver.KindHuman {
		return ErrInteractivePlayer
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.Estimator.Validate()
}

type Result struct {
	ID       int64
	Won      bool
	Moves    int
	Progress float64
}

type Summary struct {
	Games    int
	Wins     int
	Moves    int
	Duration time.Duration
}

func (s Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%d games, %d won (%.1f%%), %d moves in %s",
		s.Games, s.Wins, 100*s.WinRate(), s.Moves, s.Duration.Round(time.Millisecond),
	)
}

type Runner struct {
	cfg   Config
	log   *logrus.Logger
	trace *trace.Writer
}

// NewRunner returns a runner; trace may be nil.
func NewRunner(cfg Config, log *logrus.Logger, trace *trace.Writer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Runner{cfg: cfg, log: log, trace: trace}, nil
}

// Run plays every game and returns the results in game order. Game i always
// draws from the PCG stream (Seed, i), whatever the number of workers.
func (r *Runner) Run(ctx context.Context) (Summary, []Result, error) {
	start := time.Now()
	results := make([]Result, r.cfg.Games)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range r.cfg.Games {
		g.Go(func() error {
			res, err := r.play(gCtx, int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, nil, err
	}

	summary := Summary{Games: len(results), Duration: time.Since(start)}
	for _, res := range results {
		summary.Moves += res.Moves
		if res.Won {
			summary.Wins++
		}
	}
	r.log.WithFields(logrus.Fields{
		"games":    summary.Games,
		"wins":     summary.Wins,
		"win_rate": summary.WinRate(),
		"duration": summary.Duration.String(),
	}).Info("benchmark finished")
	return summary, results, nil
}

func (r *Runner) play(ctx context.Context, id int64) (Result, error) {
	rnd := rand.New(rand.NewPCG(r.cfg.Seed, uint64(id)))
	game, err := mines.NewGame(r.cfg.Params, rnd)
	if err != nil {
		return Result{}, err
	}
	player, err := solver.NewPlayer(r.cfg.Player, string(r.cfg.Player), rnd, r.cfg.Estimator)
	if err != nil {
		return Result{}, err
	}
	if r.trace != nil {
		game.SetNotifier(r.trace.Notifier(trace.Game{
			ID: id, Seed: r.cfg.Seed, Params: r.cfg.Params,
		}))
	}

	if err := solver.Play(ctx, game, player); err != nil {
		return Result{}, err
	}

	res := Result{
		ID:       id,
		Won:      game.IsWon(),
		Moves:    game.Moves,
		Progress: game.Grid.Progress(),
	}
	r.log.WithFields(logrus.Fields{
		"game":     id,
		"won":      res.Won,
		"moves":    res.Moves,
		"progress": res.Progress,
	}).Debug("game finished")
	return res, nil
}
