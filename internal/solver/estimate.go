package solver

import (
	"fmt"
	"strings"

	"github.com/vancomm/probasweeper/internal/mines"
)

// Sentinel values of an [EstimateTable]. Any value >= 0 is a mine-likelihood
// estimate contributed by neighbouring clues.
const (
	Unknown  = -1.0 // hidden, not adjacent to any revealed cell
	Revealed = -2.0 // already open, or already chosen by the player
	Flagged  = -3.0
)

// EstimatorParams holds the heuristic constants of the estimator and of the
// obvious-candidate scan. They are tuning knobs, not derived probabilities.
type EstimatorParams struct {
	// Epsilon is added to every clue density so that a clue with all its
	// mines flagged still yields a small positive value.
	Epsilon float64 `json:"epsilon"`
	// Estimates strictly between 0 and SafeThreshold are revealed without
	// a full scan.
	SafeThreshold float64 `json:"safe_threshold"`
	// Estimates at or above MineThreshold are flagged without a full scan.
	MineThreshold float64 `json:"mine_threshold"`
}

func DefaultEstimatorParams() EstimatorParams {
	return EstimatorParams{
		Epsilon:       0.01,
		SafeThreshold: 0.1,
		MineThreshold: 1.0,
	}
}

func (p EstimatorParams) Validate() error {
	if p.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %v", p.Epsilon)
	}
	if p.SafeThreshold <= 0 {
		return fmt.Errorf("safe threshold must be positive, got %v", p.SafeThreshold)
	}
	if p.MineThreshold <= p.SafeThreshold {
		return fmt.Errorf(
			"mine threshold %v must be above safe threshold %v",
			p.MineThreshold, p.SafeThreshold,
		)
	}
	return nil
}

type EstimateTable struct {
	Width, Height int
	Values        []float64
}

func NewEstimateTable(width, height int) *EstimateTable {
	t := &EstimateTable{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	for i := range t.Values {
		t.Values[i] = Unknown
	}
	return t
}

func (t *EstimateTable) At(x, y int) float64 {
	return t.Values[y*t.Width+x]
}

func (t *EstimateTable) Set(x, y int, v float64) {
	t.Values[y*t.Width+x] = v
}

func (t *EstimateTable) Clone() *EstimateTable {
	clone := &EstimateTable{Width: t.Width, Height: t.Height, Values: make([]float64, len(t.Values))}
	copy(clone.Values, t.Values)
	return clone
}

// String prints one row per line with two decimals; estimates get a leading
// "+" so they line up with the negative sentinels.
func (t *EstimateTable) String() string {
	var b strings.Builder
	for y := range t.Height {
		for x := range t.Width {
			if x > 0 {
				b.WriteByte(' ')
			}
			v := t.At(x, y)
			if v >= 0 {
				b.WriteByte('+')
			}
			fmt.Fprintf(&b, "%.2f", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Estimate scans the grid once in row-major order and returns a fresh table.
//
// Every revealed cell spreads the density (clue - flagged + epsilon) /
// unrevealed over its hidden unflagged neighbours, visited in
// [mines.NeighborOffsets] order. A neighbour that already holds an estimate
// keeps the larger value when either side exceeds 1, the smaller one
// otherwise.
func Estimate(g *mines.Grid, params EstimatorParams) *EstimateTable {
	t := NewEstimateTable(g.Width, g.Height)

	for y := range g.Height {
		for x := range g.Width {
			i := y*g.Width + x
			c := g.Cells[i]

			if c.Flagged && !c.Revealed {
				t.Values[i] = Flagged
				continue
			}
			if !c.Revealed {
				continue
			}
			t.Values[i] = Revealed
			if c.IsMine() {
				continue
			}

			unrevealed, flagged := 0, 0
			for nx, ny := range g.Neighbors(x, y) {
				n := g.Cells[ny*g.Width+nx]
				switch {
				case n.Flagged:
					flagged++
				case !n.Revealed:
					unrevealed++
					if t.At(nx, ny) < 0 {
						t.Set(nx, ny, 0)
					}
				}
			}
			if unrevealed == 0 {
				continue
			}

			// Over-flagged clues would go negative and read as a sentinel.
			density := max(0, (float64(c.Clue-int8(flagged))+params.Epsilon)/float64(unrevealed))
			for nx, ny := range g.Neighbors(x, y) {
				if !g.Cells[ny*g.Width+nx].Hidden() {
					continue
				}
				t.Set(nx, ny, merge(t.At(nx, ny), density))
			}
		}
	}

	return t
}

func merge(current, density float64) float64 {
	switch {
	case current <= 0:
		return density
	case current > 1.0 || density > 1.0:
		return max(current, density)
	default:
		return min(current, density)
	}
}

// obvious returns the first cell in row-major order whose estimate is
// decisive: at or above the mine threshold, or strictly between 0 and the
// safe threshold.
func (t *EstimateTable) obvious(params EstimatorParams) (mines.Move, bool) {
	for i, v := range t.Values {
		x, y := i%t.Width, i/t.Width
		if v >= params.MineThreshold {
			return mines.Move{X: x, Y: y, Action: mines.Flag}, true
		}
		if 0 < v && v < params.SafeThreshold {
			return mines.Move{X: x, Y: y, Action: mines.Reveal}, true
		}
	}
	return mines.Move{}, false
}

// lowest returns every cell holding the smallest non-negative estimate.
func (t *EstimateTable) lowest() []int {
	var (
		best       = -1.0
		candidates []int
	)
	for i, v := range t.Values {
		if v < 0 {
			continue
		}
		switch {
		case best < 0 || v < best:
			best = v
			candidates = append(candidates[:0], i)
		case v == best:
			candidates = append(candidates, i)
		}
	}
	return candidates
}
