package mines

import "fmt"

// Event describes a move that was accepted by a [Game].
type Event struct {
	Player string
	Move   Move
	Turn   int
	Over   bool
	Won    bool
}

func (e Event) String() string {
	s := fmt.Sprintf("%s made move: %s", e.Player, e.Move)
	switch {
	case e.Won:
		s += " and won"
	case e.Over:
		s += " and lost"
	}
	return s
}

// Notifier is called synchronously after each state transition of a game.
type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) {
	f(e)
}
