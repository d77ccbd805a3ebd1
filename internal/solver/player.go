package solver

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vancomm/probasweeper/internal/mines"
)

// Player produces the next move for a board. ok is false when the player
// defers to external input, as an interactive player always does.
type Player interface {
	Name() string
	NextMove(g *mines.Grid) (m mines.Move, ok bool)
}

type Kind string

const (
	KindHuman  Kind = "human"
	KindRandom Kind = "random"
	KindProba  Kind = "proba"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindHuman, KindRandom, KindProba:
		return k, nil
	default:
		return "", fmt.Errorf(
			"unknown player kind %q, expected one of %s, %s, %s",
			s, KindHuman, KindRandom, KindProba,
		)
	}
}

func NewPlayer(kind Kind, name string, rnd *rand.Rand, params EstimatorParams) (Player, error) {
	switch kind {
	case KindHuman:
		return HumanPlayer{name: name}, nil
	case KindRandom:
		return &RandomPlayer{name: name, rnd: rnd}, nil
	case KindProba:
		return NewProbaPlayer(name, rnd, params), nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}

type HumanPlayer struct {
	name string
}

func NewHumanPlayer(name string) HumanPlayer {
	return HumanPlayer{name: name}
}

func (p HumanPlayer) Name() string {
	return p.name
}

func (HumanPlayer) NextMove(*mines.Grid) (mines.Move, bool) {
	return mines.Move{}, false
}

// RandomPlayer reveals a uniformly chosen cell that is neither revealed nor
// flagged.
type RandomPlayer struct {
	name string
	rnd  *rand.Rand
}

func NewRandomPlayer(name string, rnd *rand.Rand) *RandomPlayer {
	return &RandomPlayer{name: name, rnd: rnd}
}

func (p *RandomPlayer) Name() string {
	return p.name
}

func (p *RandomPlayer) NextMove(g *mines.Grid) (mines.Move, bool) {
	var hidden []int
	for i, c := range g.Cells {
		if c.Hidden() {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return mines.Move{}, false
	}
	i := hidden[p.rnd.IntN(len(hidden))]
	return mines.Move{X: i % g.Width, Y: i / g.Width, Action: mines.Reveal}, true
}
