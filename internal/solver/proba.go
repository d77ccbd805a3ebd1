package solver

import (
	"math/rand/v2"

	"github.com/vancomm/probasweeper/internal/mines"
)

// ProbaPlayer picks moves from an [EstimateTable]. The table of the previous
// turn is kept as memory: as long as it still holds a decisive cell, the
// move is taken from it without scanning the board again.
type ProbaPlayer struct {
	name   string
	params EstimatorParams
	rnd    *rand.Rand
	memory *EstimateTable
}

func NewProbaPlayer(name string, rnd *rand.Rand, params EstimatorParams) *ProbaPlayer {
	return &ProbaPlayer{name: name, params: params, rnd: rnd}
}

func (p *ProbaPlayer) Name() string {
	return p.name
}

func (p *ProbaPlayer) Params() EstimatorParams {
	return p.params
}

// Reset forgets the retained table, e.g. when a new game starts.
func (p *ProbaPlayer) Reset() {
	p.memory = nil
}

// Memory returns a copy of the retained table, or nil.
func (p *ProbaPlayer) Memory() *EstimateTable {
	if p.memory == nil {
		return nil
	}
	return p.memory.Clone()
}

func (p *ProbaPlayer) NextMove(g *mines.Grid) (mines.Move, bool) {
	if p.memory != nil && (p.memory.Width != g.Width || p.memory.Height != g.Height) {
		p.memory = nil
	}

	if p.memory != nil {
		if m, ok := p.obvious(g); ok {
			return p.chose(m), true
		}
	}

	p.memory = Estimate(g, p.params)
	if m, ok := p.obvious(g); ok {
		return p.chose(m), true
	}

	if candidates := p.memory.lowest(); len(candidates) > 0 {
		i := candidates[p.rnd.IntN(len(candidates))]
		return p.chose(mines.Move{X: i % g.Width, Y: i / g.Width, Action: mines.Reveal}), true
	}

	var hidden, flagged []int
	for i, c := range g.Cells {
		switch {
		case c.Hidden():
			hidden = append(hidden, i)
		case c.Flagged:
			flagged = append(flagged, i)
		}
	}
	if len(hidden) == 0 {
		// Every closed cell carries a flag yet the game goes on, so at
		// least one flag is wrong.
		hidden = flagged
	}
	if len(hidden) == 0 {
		return mines.Move{}, false
	}
	i := hidden[p.rnd.IntN(len(hidden))]
	return p.chose(mines.Move{X: i % g.Width, Y: i / g.Width, Action: mines.Reveal}), true
}

// obvious scans the memory for a decisive cell. A candidate the board no
// longer allows, because someone else opened or flagged it since the table
// was built, is retired from memory and the scan goes on.
func (p *ProbaPlayer) obvious(g *mines.Grid) (mines.Move, bool) {
	for {
		m, ok := p.memory.obvious(p.params)
		if !ok {
			return m, false
		}
		c := g.Cells[m.Y*g.Width+m.X]
		if c.Hidden() {
			return m, true
		}
		if c.Flagged {
			p.memory.Set(m.X, m.Y, Flagged)
		} else {
			p.memory.Set(m.X, m.Y, Revealed)
		}
	}
}

// chose marks the cell as handled before the board reflects the move, so
// the next fast-path scan does not offer it again.
func (p *ProbaPlayer) chose(m mines.Move) mines.Move {
	p.memory.Set(m.X, m.Y, Revealed)
	return m
}
