package mines

import (
	"fmt"
	"strings"
)

type Action uint8

const (
	Reveal Action = iota + 1
	Flag
	lastAction
)

func (a Action) String() string {
	switch a {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

var ErrBadAction error

func init() {
	var allowed []string
	for a := Reveal; a < lastAction; a++ {
		allowed = append(allowed, "'"+a.String()+"'")
	}
	ErrBadAction = fmt.Errorf(
		"%w: action must be one of %s", ErrInvalidAction, strings.Join(allowed, ", "),
	)
}

// ParseAction accepts "reveal" (or its alias "open") and "flag", in any case.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reveal", "open":
		return Reveal, nil
	case "flag":
		return Flag, nil
	default:
		return 0, ErrBadAction
	}
}

func (a Action) MarshalText() ([]byte, error) {
	if a != Reveal && a != Flag {
		return nil, ErrBadAction
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

type Move struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Action Action `json:"action"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d) with action: %s", m.X, m.Y, m.Action)
}
