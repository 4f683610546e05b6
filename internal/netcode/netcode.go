// netcode decides who applies moves to the world: this process for local
// play, or a server that every client sends its moves to
package netcode

import (
	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/hash"
	"github.com/shoeengine/bayou/internal/netcode/packs"
	"github.com/shoeengine/bayou/internal/world"
)

// MaxPacketSize is the conservative payload size to stay under
//
// Upper limit of packets in gamedev are generally: "something like 1000 to 1200 bytes of payload data"
// source: https://www.gafferongames.com/post/packet_fragmentation_and_reassembly/
const MaxPacketSize = 1200

var ErrUnknownAction = world.ErrUnknownAction

type Controller interface {
	// BeforeUpdate consumes world.Pending and syncs the world with the
	// other side
	BeforeUpdate(world *world.World)
	HasStartedOrConnected() bool
	// Err returns the error that stopped the controller, if any
	Err() error
}

// ActionToPacket converts a move made on this side for sending
func ActionToPacket(action bayou.Action, names bayou.Resolver) (*packs.ActionPacket, error) {
	switch action := action.(type) {
	case bayou.PlaceAction:
		if !bayou.InBounds(action.Row, action.Col) {
			return nil, errors.Wrapf(bayou.ErrOutOfBounds, "(%d, %d)", action.Row, action.Col)
		}
		name, ok := names.Resolve(action.Type)
		if !ok {
			return nil, errors.Wrapf(bayou.ErrUnknownType, "%v", action.Type)
		}
		return &packs.ActionPacket{
			Kind:      packs.ActionPlace,
			Row:       uint8(action.Row),
			Col:       uint8(action.Col),
			PieceType: name,
		}, nil
	case bayou.RemoveAction:
		if !bayou.InBounds(action.Row, action.Col) {
			return nil, errors.Wrapf(bayou.ErrOutOfBounds, "(%d, %d)", action.Row, action.Col)
		}
		return &packs.ActionPacket{
			Kind: packs.ActionRemove,
			Row:  uint8(action.Row),
			Col:  uint8(action.Col),
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownAction, "%T", action)
}

// PacketToAction converts a received move. Placed pieces always belong to
// player, whatever the sender asked for.
//
// Piece types must already be known to names, a remote player can't add new
// ones.
func PacketToAction(packet *packs.ActionPacket, player bayou.PlayerID, names bayou.Resolver) (bayou.Action, error) {
	row, col := int(packet.Row), int(packet.Col)
	switch packet.Kind {
	case packs.ActionPlace:
		if !bayou.InBounds(row, col) {
			return nil, errors.Wrapf(bayou.ErrOutOfBounds, "(%d, %d)", row, col)
		}
		typ := hash.String(packet.PieceType)
		if name, ok := names.Resolve(typ); !ok || name != packet.PieceType {
			return nil, errors.Wrapf(bayou.ErrUnknownType, "%q", packet.PieceType)
		}
		return bayou.PlaceAction{
			Row:    row,
			Col:    col,
			Player: player,
			Type:   typ,
		}, nil
	case packs.ActionRemove:
		if !bayou.InBounds(row, col) {
			return nil, errors.Wrapf(bayou.ErrOutOfBounds, "(%d, %d)", row, col)
		}
		return bayou.RemoveAction{
			Row: row,
			Col: col,
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownAction, "kind %d", packet.Kind)
}
