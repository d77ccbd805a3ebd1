// Command sweep plays minesweeper in the terminal and benchmarks the
// automated players.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/probasweeper/internal/bench"
	"github.com/vancomm/probasweeper/internal/mines"
	"github.com/vancomm/probasweeper/internal/solver"
	"github.com/vancomm/probasweeper/internal/trace"
	"github.com/vancomm/probasweeper/internal/tui"
)

var log = logrus.New()

const usage = `usage: sweep <command> [flags]

commands:
  play   play a game in the terminal, or watch a bot play it
  bench  play many games with a bot and report the win rate

run "sweep <command> -h" for the flags of a command`

// setupLogging configures the package logger. When quiet is set the
// terminal gets nothing and only the log file, if any, receives entries.
func setupLogging(config *Config, quiet bool) error {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: !quiet})
	if quiet {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	if config.LogFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   config.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", config.LogFile, err)
	}
	log.AddHook(hook)
	return nil
}

func gameParams(config *Config) mines.GameParams {
	return mines.GameParams{
		Width:     config.Width,
		Height:    config.Height,
		MineCount: config.MineCount,
	}
}

func seed(config *Config) uint64 {
	if config.Seed != 0 {
		return config.Seed
	}
	return rand.Uint64()
}

func play(ctx context.Context, config *Config) error {
	kind, err := solver.ParseKind(config.Player)
	if err != nil {
		return err
	}
	if err := config.Estimator.Validate(); err != nil {
		return err
	}

	s := seed(config)
	rnd := rand.New(rand.NewPCG(s, 0))
	game, err := mines.NewGame(gameParams(config), rnd)
	if err != nil {
		return err
	}
	game.Player = string(kind)
	log.WithFields(logrus.Fields{"seed": s, "player": kind}).Info("new game")

	var bot solver.Player
	if kind != solver.KindHuman {
		bot, err = solver.NewPlayer(kind, string(kind), rnd, config.Estimator)
		if err != nil {
			return err
		}
	}
	game.SetNotifier(mines.NotifierFunc(func(e mines.Event) {
		log.WithFields(logrus.Fields{
			"turn": e.Turn,
			"over": e.Over,
			"won":  e.Won,
		}).Debug(e.String())
	}))

	model := tui.New(game, bot, config.Delay.Duration, bot != nil)
	final, err := tui.Run(model, tea.WithContext(ctx))
	if err != nil {
		return err
	}

	game = final.Game()
	log.WithFields(logrus.Fields{
		"over":     game.IsOver(),
		"won":      game.IsWon(),
		"moves":    game.Moves,
		"progress": game.Grid.Progress(),
	}).Info("game finished")
	if p, ok := bot.(*solver.ProbaPlayer); ok {
		if memory := p.Memory(); memory != nil {
			log.Debug("last estimates:\n", memory.String())
		}
	}
	return nil
}

func runBench(ctx context.Context, config *Config) (err error) {
	kind, err := solver.ParseKind(config.Player)
	if err != nil {
		return err
	}

	var tw *trace.Writer
	if config.Bench.Trace != "" {
		tw = trace.NewWriter(config.Bench.Trace)
		defer func() {
			err = errors.Join(err, tw.Close())
		}()
	}

	runner, err := bench.NewRunner(bench.Config{
		Games:     config.Bench.Games,
		Workers:   config.Bench.Workers,
		Seed:      seed(config),
		Player:    kind,
		Params:    gameParams(config),
		Estimator: config.Estimator,
	}, log, tw)
	if err != nil {
		return err
	}

	summary, _, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cmd, args := args[0], args[1:]
	var command func(context.Context, *Config) error
	switch cmd {
	case "play":
		command = play
	case "bench":
		command = runBench
	case "-h", "--help", "help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	config, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := setupLogging(config, cmd == "play"); err != nil {
		return err
	}
	log.WithFields(config.Fields()).Debug("config")

	return command(ctx, config)
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
