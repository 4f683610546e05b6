package bayou

import "github.com/pkg/errors"

var (
	ErrOutOfBounds   = errors.New("square is off the board")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrOccupied      = errors.New("square is occupied")
	ErrEmpty         = errors.New("square is empty")
	ErrCapacity      = errors.New("player has no free piece slots")
	ErrMalformed     = errors.New("malformed board record")
	ErrInconsistent  = errors.New("board and piece lists disagree")
	ErrUnknownType   = errors.New("unknown piece type")
)
