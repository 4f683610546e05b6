package bayou

import "github.com/shoeengine/bayou/internal/hash"

// Action is a move that can be attempted against a State.
//
// If the action is illegal Apply must leave the state untouched and return
// false.
type Action interface {
	Apply(state *State) bool
}

// PlaceAction puts a new piece on an empty square
type PlaceAction struct {
	Row, Col int
	Player   PlayerID
	Type     hash.Value
}

func (action PlaceAction) Apply(state *State) bool {
	return state.Place(action.Row, action.Col, action.Player, action.Type)
}

// RemoveAction takes whatever piece is on a square off the board
type RemoveAction struct {
	Row, Col int
}

func (action RemoveAction) Apply(state *State) bool {
	return state.Remove(action.Row, action.Col)
}
