package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// PlaceMines marks n distinct cells as mines by sampling random cells until
// enough unmined ones have been hit.
func PlaceMines(g *Grid, n int, r *rand.Rand) error {
	if n < 0 || n > len(g.Cells) {
		return fmt.Errorf(
			"%w: %d mines on %d cells", ErrInvalidConfiguration, n, len(g.Cells),
		)
	}
	for placed := 0; placed < n; {
		c := g.at(g.RandomCell(r))
		if !c.IsMine() {
			c.Clue = Mine
			placed++
		}
	}
	return nil
}

// ComputeClues stores in every safe cell the number of mines among its
// in-bounds neighbours. Mined cells are left untouched.
func ComputeClues(g *Grid) {
	for y := range g.Height {
		for x := range g.Width {
			c := g.at(x, y)
			if c.IsMine() {
				continue
			}
			var n int8
			for nx, ny := range g.Neighbors(x, y) {
				if g.at(nx, ny).IsMine() {
					n++
				}
			}
			c.Clue = n
		}
	}
}

// LayoutGrid builds a grid from rows of text where '*' is a mine and any
// other byte a safe cell, then computes the clues. Spaces are ignored.
func LayoutGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidConfiguration)
	}
	cleaned := make([]string, len(rows))
	for i, row := range rows {
		cleaned[i] = strings.ReplaceAll(row, " ", "")
	}
	width := len(cleaned[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty layout row", ErrInvalidConfiguration)
	}
	g := NewGrid(width, len(cleaned))
	for y, row := range cleaned {
		if len(row) != width {
			return nil, fmt.Errorf(
				"%w: row %d has %d cells, expected %d",
				ErrInvalidConfiguration, y, len(row), width,
			)
		}
		for x := range width {
			if row[x] == '*' {
				g.at(x, y).Clue = Mine
			}
		}
	}
	ComputeClues(g)
	return g, nil
}
