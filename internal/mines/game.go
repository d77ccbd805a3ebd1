package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"math/rand/v2"
)

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) Unpack() (width, height, mineCount int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf(
			"%w: board must be at least 1x1, got %dx%d",
			ErrInvalidConfiguration, p.Width, p.Height,
		)
	}
	if p.Width > math.MaxInt/p.Height {
		return fmt.Errorf(
			"%w: a %dx%d board has too many cells",
			ErrInvalidConfiguration, p.Width, p.Height,
		)
	}
	if p.MineCount < 0 || p.MineCount > p.Width*p.Height {
		return fmt.Errorf(
			"%w: %d mines do not fit on a %dx%d board",
			ErrInvalidConfiguration, p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

// ValidateSize is Validate with an upper bound on the number of cells.
func (p GameParams) ValidateSize(maxCells int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if cells := p.Width * p.Height; cells > maxCells {
		return fmt.Errorf(
			"%w: a %dx%d board has %d cells, at most %d are allowed",
			ErrInvalidConfiguration, p.Width, p.Height, cells, maxCells,
		)
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

type Game struct {
	GameParams
	Grid      Grid
	Over, Won bool
	Moves     int
	Player    string

	notifier Notifier
}

// NewGame places the mines and computes every clue. An invalid
// configuration is rejected before any cell is touched.
func NewGame(params GameParams, r *rand.Rand) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	grid := NewGrid(params.Width, params.Height)
	if err := PlaceMines(grid, params.MineCount, r); err != nil {
		return nil, err
	}
	ComputeClues(grid)
	return &Game{GameParams: params, Grid: *grid}, nil
}

// NewGameFromGrid starts a game on a prepared layout, typically one from
// [LayoutGrid]. The clues of the grid must already be computed.
func NewGameFromGrid(grid *Grid) *Game {
	return &Game{
		GameParams: GameParams{
			Width:     grid.Width,
			Height:    grid.Height,
			MineCount: grid.MineCount(),
		},
		Grid: *grid,
	}
}

func DecodeGame(buf []byte) (*Game, error) {
	var game Game
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Game) SetNotifier(n Notifier) {
	g.notifier = n
}

func (g *Game) IsOver() bool {
	return g.Over
}

func (g *Game) IsWon() bool {
	return g.Won
}

func (g *Game) Apply(m Move) error {
	return g.ApplyMove(m.X, m.Y, m.Action)
}

// ApplyMove reveals or toggles the flag of the cell at x,y. A rejected move
// returns an error and leaves the game untouched.
func (g *Game) ApplyMove(x, y int, action Action) error {
	if g.Over {
		return ErrGameOver
	}
	c, err := g.Grid.CellAt(x, y)
	if err != nil {
		return err
	}

	switch action {
	case Reveal:
		c.Revealed = true
		c.Flagged = false
		if c.IsMine() {
			g.Over, g.Won = true, false
		} else if g.allSafeRevealed() {
			g.Over, g.Won = true, true
		}
	case Flag:
		if c.Revealed {
			return ErrFlagRevealed
		}
		c.Flagged = !c.Flagged
	default:
		return ErrBadAction
	}

	g.Moves++
	if g.notifier != nil {
		g.notifier.Notify(Event{
			Player: g.Player,
			Move:   Move{X: x, Y: y, Action: action},
			Turn:   g.Moves,
			Over:   g.Over,
			Won:    g.Won,
		})
	}
	return nil
}

func (g *Game) allSafeRevealed() bool {
	for _, c := range g.Grid.Cells {
		if !c.IsMine() && !c.Revealed {
			return false
		}
	}
	return true
}

// View is the board as a client may see it; it is fully exposed once the
// game is over.
func (g *Game) View() []CellState {
	return g.Grid.PlayerView(g.Over)
}
