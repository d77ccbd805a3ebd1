// Package trace records every move of a batch run to a parquet file.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vancomm/probasweeper/internal/mines"
)

const schemaVersion = "move_trace_v1"

// Row is one accepted move. Game settings are repeated on every row so a
// file can be filtered without joins.
type Row struct {
	GameID    int64  `parquet:"game_id"`
	Seed      uint64 `parquet:"seed"`
	Player    string `parquet:"player,dict"`
	Width     int32  `parquet:"width"`
	Height    int32  `parquet:"height"`
	MineCount int32  `parquet:"mine_count"`
	Turn      int32  `parquet:"turn"`
	X         int32  `parquet:"x"`
	Y         int32  `parquet:"y"`
	Action    string `parquet:"action,dict"`
	Over      bool   `parquet:"over"`
	Won       bool   `parquet:"won"`
}

// Game identifies the game a [Writer.Notifier] reports on.
type Game struct {
	ID     int64
	Seed   uint64
	Params mines.GameParams
}

var ErrClosed = errors.New("trace writer is closed")

// Writer buffers rows in memory and writes them out on Close. It is safe
// for concurrent use.
type Writer struct {
	path string

	mu     sync.Mutex
	rows   []Row
	closed bool
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Append(rows ...Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.rows = append(w.rows, rows...)
	return nil
}

// Notifier turns the events of one game into rows. Events arriving after
// Close are dropped.
func (w *Writer) Notifier(g Game) mines.Notifier {
	return mines.NotifierFunc(func(e mines.Event) {
		_ = w.Append(Row{
			GameID:    g.ID,
			Seed:      g.Seed,
			Player:    e.Player,
			Width:     int32(g.Params.Width),
			Height:    int32(g.Params.Height),
			MineCount: int32(g.Params.MineCount),
			Turn:      int32(e.Turn),
			X:         int32(e.Move.X),
			Y:         int32(e.Move.Y),
			Action:    e.Move.Action.String(),
			Over:      e.Over,
			Won:       e.Won,
		})
	})
}

// Close writes the buffered rows to a temporary file and renames it into
// place, so readers never see a partial trace.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmpPath := w.path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, w.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// Read loads every row of a trace file.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	rows := make([]Row, reader.NumRows())
	n := 0
	for n < len(rows) {
		m, err := reader.Read(rows[n:])
		n += m
		if errors.Is(err, io.EOF) || (err == nil && m == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return rows[:n], nil
}
