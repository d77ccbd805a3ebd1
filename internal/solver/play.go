package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/vancomm/probasweeper/internal/mines"
)

var ErrDeferred = errors.New("player deferred to external input")

// Play lets the player move until the game is over. It returns ErrDeferred
// when the player asks for external input, and the context error when ctx is
// done between two turns.
func Play(ctx context.Context, g *mines.Game, p Player) error {
	if g.Player == "" {
		g.Player = p.Name()
	}
	for !g.IsOver() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, ok := p.NextMove(&g.Grid)
		if !ok {
			return ErrDeferred
		}
		if err := g.Apply(m); err != nil {
			return fmt.Errorf("%s played %s: %w", p.Name(), m, err)
		}
	}
	return nil
}
