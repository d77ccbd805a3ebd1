package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Mine is the clue value of a mined cell. Safe cells carry the number of
// mined neighbours, 0 to 8.
const Mine int8 = -1

type Cell struct {
	Revealed bool
	Flagged  bool
	Clue     int8
}

func (c Cell) IsMine() bool {
	return c.Clue == Mine
}

// Hidden reports whether the cell is neither revealed nor flagged.
func (c Cell) Hidden() bool {
	return !c.Revealed && !c.Flagged
}

// Grid stores cells in row-major order: the cell at x,y is Cells[y*Width+x].
type Grid struct {
	Width, Height int
	Cells         []Cell
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
}

func (g *Grid) InBounds(x, y int) bool {
	return 0 <= x && x < g.Width && 0 <= y && y < g.Height
}

func (g *Grid) CellAt(x, y int) (*Cell, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf(
			"%w: (%d, %d) on a %dx%d grid", ErrOutOfBounds, x, y, g.Width, g.Height,
		)
	}
	return &g.Cells[y*g.Width+x], nil
}

// at is CellAt without the bounds check, for coordinates the package
// computed itself.
func (g *Grid) at(x, y int) *Cell {
	return &g.Cells[y*g.Width+x]
}

func (g *Grid) RandomCell(r *rand.Rand) (x, y int) {
	return r.IntN(g.Width), r.IntN(g.Height)
}

func (g *Grid) RevealedCount() (count int) {
	for _, c := range g.Cells {
		if c.Revealed {
			count++
		}
	}
	return
}

func (g *Grid) FlaggedCount() (count int) {
	for _, c := range g.Cells {
		if c.Flagged {
			count++
		}
	}
	return
}

func (g *Grid) MineCount() (count int) {
	for _, c := range g.Cells {
		if c.IsMine() {
			count++
		}
	}
	return
}

// Progress is the revealed fraction of the board, in [0, 1].
func (g *Grid) Progress() float64 {
	if len(g.Cells) == 0 {
		return 0
	}
	return float64(g.RevealedCount()) / float64(len(g.Cells))
}

// NeighborOffsets lists the 8-neighbourhood as (dx, dy) pairs. Every
// neighbour scan in this module visits cells in this order: row above left to
// right, then the left and right cells, then the row below.
var NeighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors yields the in-bounds neighbours of x,y in [NeighborOffsets] order.
// Cells outside the grid are skipped, not reported.
func (g *Grid) Neighbors(x, y int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for _, d := range NeighborOffsets {
			nx, ny := x+d[0], y+d[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			if !yield(nx, ny) {
				return
			}
		}
	}
}

func (g *Grid) Clone() *Grid {
	clone := &Grid{Width: g.Width, Height: g.Height, Cells: make([]Cell, len(g.Cells))}
	copy(clone.Cells, g.Cells)
	return clone
}

// String renders the board as the player sees it: "?" hidden, "F" flagged,
// "M" a revealed mine, the clue digit otherwise.
func (g *Grid) String() string {
	var b strings.Builder
	for y := range g.Height {
		for x := range g.Width {
			if x > 0 {
				b.WriteByte(' ')
			}
			c := g.at(x, y)
			switch {
			case c.Flagged:
				b.WriteByte('F')
			case !c.Revealed:
				b.WriteByte('?')
			case c.IsMine():
				b.WriteByte('M')
			default:
				b.WriteString(strconv.Itoa(int(c.Clue)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is revealed with that many mined neighbours.
	 *
	 * The values above 8 only show up once the game is over and the
	 * board is exposed: 64 is a flag on a mine, 65 the mine that was
	 * stepped on, 66 a flag on a safe cell, 67 a mine nobody flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged, s == CorrectlyFlagged:
		return "*"
	case s == ExplodedMine, s == UnflaggedMine:
		return "X"
	case s == FalselyFlagged:
		return "#"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// PlayerView maps the grid to what a client may see. With expose set, as
// after the end of a game, mines and flag correctness are shown as well.
func (g *Grid) PlayerView(expose bool) []CellState {
	view := make([]CellState, len(g.Cells))
	for i, c := range g.Cells {
		switch {
		case c.Revealed && c.IsMine():
			view[i] = ExplodedMine
		case c.Revealed:
			view[i] = CellState(c.Clue)
		case c.Flagged && expose && c.IsMine():
			view[i] = CorrectlyFlagged
		case c.Flagged && expose:
			view[i] = FalselyFlagged
		case c.Flagged:
			view[i] = Flagged
		case expose && c.IsMine():
			view[i] = UnflaggedMine
		default:
			view[i] = Unknown
		}
	}
	return view
}
