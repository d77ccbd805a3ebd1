package main

import (
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/probasweeper/internal/solver"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type BenchConfig struct {
	Games   int    `json:"games"`
	Workers int    `json:"workers"`
	Trace   string `json:"trace"`
}

type Config struct {
	LogLevel  string                 `json:"log_level"`
	LogFile   string                 `json:"log_file"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	MineCount int                    `json:"mine_count"`
	Player    string                 `json:"player"`
	Seed      uint64                 `json:"seed"`
	Delay     Duration               `json:"delay"`
	Estimator solver.EstimatorParams `json:"estimator"`
	Bench     BenchConfig            `json:"bench"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		Width:     9,
		Height:    9,
		MineCount: 10,
		Player:    string(solver.KindProba),
		Delay:     Duration{200 * time.Millisecond},
		Estimator: solver.DefaultEstimatorParams(),
		Bench: BenchConfig{
			Games: 1000,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"log_level":      c.LogLevel,
		"log_file":       c.LogFile,
		"width":          c.Width,
		"height":         c.Height,
		"mine_count":     c.MineCount,
		"player":         c.Player,
		"seed":           c.Seed,
		"delay":          c.Delay.Duration.String(),
		"epsilon":        c.Estimator.Epsilon,
		"safe_threshold": c.Estimator.SafeThreshold,
		"mine_threshold": c.Estimator.MineThreshold,
		"bench_games":    c.Bench.Games,
		"bench_workers":  c.Bench.Workers,
		"bench_trace":    c.Bench.Trace,
	}
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

func bindFlags(fs *flag.FlagSet, c *Config) {
	fs.String("config", "", "JSON config file, flags override its values")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "also log to this rotated file")
	fs.IntVar(&c.Width, "width", c.Width, "board width")
	fs.IntVar(&c.Height, "height", c.Height, "board height")
	fs.IntVar(&c.MineCount, "mines", c.MineCount, "number of mines")
	fs.StringVar(&c.Player, "player", c.Player, "player kind: human, random or proba")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one")
	fs.DurationVar(&c.Delay.Duration, "delay", c.Delay.Duration, "delay between autoplay moves")
	fs.Float64Var(&c.Estimator.Epsilon, "epsilon", c.Estimator.Epsilon, "estimator epsilon")
	fs.Float64Var(&c.Estimator.SafeThreshold, "safe-threshold", c.Estimator.SafeThreshold, "estimates below this are revealed")
	fs.Float64Var(&c.Estimator.MineThreshold, "mine-threshold", c.Estimator.MineThreshold, "estimates at or above this are flagged")
	fs.IntVar(&c.Bench.Games, "games", c.Bench.Games, "number of games to benchmark")
	fs.IntVar(&c.Bench.Workers, "workers", c.Bench.Workers, "concurrent games, 0 uses every CPU")
	fs.StringVar(&c.Bench.Trace, "trace", c.Bench.Trace, "write every move to this parquet file")
}

// loadConfig parses args once to find -config, then again on top of the
// file so that flags win.
func loadConfig(name string, args []string) (*Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := fs.Lookup("config").Value.String()
	if path == "" {
		return &cfg, nil
	}

	cfg = DefaultConfig()
	if err := ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	fs = flag.NewFlagSet(name, flag.ContinueOnError)
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}
