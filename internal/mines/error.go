package mines

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds          = errors.New("coordinates out of bounds")
	ErrInvalidConfiguration = errors.New("invalid game configuration")
	ErrInvalidAction        = errors.New("invalid action")

	ErrGameOver     = fmt.Errorf("%w: game is over", ErrInvalidAction)
	ErrFlagRevealed = fmt.Errorf("%w: cannot flag a revealed cell", ErrInvalidAction)
)
