// world is a Bayou match: the board, whose turn it is and which side this
// process plays
package world

import (
	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/hash"
)

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotYourPiece  = errors.New("piece belongs to the other player")
	// ErrUnknownAction is returned for nil or unsupported actions
	ErrUnknownAction = errors.New("unknown action")
)

type World struct {
	State bayou.State
	// Names resolves piece type hashes, shared with every data manager
	Names *hash.Registry
	// Turn is the player allowed to move next
	Turn bayou.PlayerID
	// MyPlayer is the side this process controls. For local hot-seat play
	// it follows Turn.
	MyPlayer bayou.PlayerID
	// Catalogue limits which piece types can be placed, nil allows any
	Catalogue *PieceCatalogue
	// Pending are actions made by this process that the netcode controller
	// hasn't consumed yet
	Pending []bayou.Action
}

func New(names *hash.Registry) *World {
	if names == nil {
		names = hash.NewRegistry()
	}
	return &World{
		Names: names,
	}
}

// Queue adds an action for the controller to apply or send
func (world *World) Queue(action bayou.Action) {
	world.Pending = append(world.Pending, action)
}

// TakePending returns and clears the queued actions
func (world *World) TakePending() []bayou.Action {
	pending := world.Pending
	world.Pending = nil
	return pending
}

// Apply runs action for player. It only succeeds on player's turn, and a
// player can only place or remove their own pieces. On success the turn
// passes to the other player.
func (world *World) Apply(player bayou.PlayerID, action bayou.Action) error {
	if player != world.Turn {
		return errors.Wrapf(ErrNotYourTurn, "%v tried to move on %v's turn", player, world.Turn)
	}
	switch action := action.(type) {
	case bayou.PlaceAction:
		if action.Player != player {
			return errors.Wrapf(ErrNotYourPiece, "%v tried to place for %v", player, action.Player)
		}
		if world.Catalogue != nil && !world.Catalogue.Contains(action.Type) {
			return errors.Wrapf(bayou.ErrUnknownType, "%v is not in the piece catalogue", action.Type)
		}
		if err := world.State.CheckPlace(action.Row, action.Col, action.Player); err != nil {
			return err
		}
	case bayou.RemoveAction:
		if err := world.State.CheckRemove(action.Row, action.Col); err != nil {
			return err
		}
		if owner, _, _ := world.State.PieceAt(action.Row, action.Col); owner != player {
			return errors.Wrapf(ErrNotYourPiece, "%v tried to remove a piece of %v", player, owner)
		}
	default:
		return errors.Wrapf(ErrUnknownAction, "%T", action)
	}
	if !action.Apply(&world.State) {
		return errors.Errorf("%T was rejected", action)
	}
	world.Turn = world.Turn.Other()
	return nil
}

// Reset empties the board and gives the first move to player 1
func (world *World) Reset() {
	world.State.ResetState()
	world.Turn = bayou.Player1
	world.Pending = nil
}
