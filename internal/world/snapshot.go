package world

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/netcode/packbuf"
	"github.com/shoeengine/bayou/internal/netcode/packs"
)

// Snapshot packs the match for a client that plays yourPlayer
func (world *World) Snapshot(yourPlayer bayou.PlayerID) (*packs.BoardStatePacket, error) {
	record, err := world.State.Serialize(world.Names)
	if err != nil {
		return nil, err
	}
	packet := &packs.BoardStatePacket{
		YourPlayer: uint8(yourPlayer),
		Turn:       uint8(world.Turn),
		Board:      make([]uint8, len(record.Board)),
		Player1:    toPieceStates(record.Pieces.Player1),
		Player2:    toPieceStates(record.Pieces.Player2),
	}
	for i, cell := range record.Board {
		packet.Board[i] = uint8(cell)
	}
	return packet, nil
}

// SyncToSnapshot replaces the match with one received from the server.
// A snapshot that doesn't describe a valid board is rejected and the
// world is left as it was.
func (world *World) SyncToSnapshot(packet *packs.BoardStatePacket) error {
	yourPlayer := bayou.PlayerID(packet.YourPlayer)
	turn := bayou.PlayerID(packet.Turn)
	if !yourPlayer.Valid() || !turn.Valid() {
		return errors.Wrapf(bayou.ErrMalformed, "bad player in snapshot, you %d, turn %d", packet.YourPlayer, packet.Turn)
	}
	record := bayou.Record{
		Board: make([]int, len(packet.Board)),
		Pieces: &bayou.PiecesRecord{
			Player1: toPieceRecords(packet.Player1),
			Player2: toPieceRecords(packet.Player2),
		},
	}
	for i, cell := range packet.Board {
		record.Board[i] = int(cell)
	}
	if err := world.State.Deserialize(record, world.Names); err != nil {
		return err
	}
	world.MyPlayer = yourPlayer
	world.Turn = turn
	return nil
}

// EncodeSnapshot is Snapshot written with packbuf, for saving a match
// without the JSON overhead
func (world *World) EncodeSnapshot() ([]byte, error) {
	packet, err := world.Snapshot(world.MyPlayer)
	if err != nil {
		return nil, err
	}
	w := bytes.NewBuffer(nil)
	if err := packbuf.Write(w, packet); err != nil {
		return nil, errors.Wrap(err, "unable to encode snapshot")
	}
	return w.Bytes(), nil
}

func (world *World) DecodeSnapshot(data []byte) error {
	var packet packs.BoardStatePacket
	if err := packbuf.Read(bytes.NewReader(data), &packet); err != nil {
		return errors.Wrap(err, "unable to decode snapshot")
	}
	return world.SyncToSnapshot(&packet)
}

func toPieceStates(list []bayou.PieceRecord) []packs.PieceState {
	if len(list) == 0 {
		return nil
	}
	r := make([]packs.PieceState, len(list))
	for i, piece := range list {
		r[i] = packs.PieceState{
			Type:       piece.Type,
			BoardIndex: uint8(piece.BoardIndex),
		}
	}
	return r
}

func toPieceRecords(list []packs.PieceState) []bayou.PieceRecord {
	r := make([]bayou.PieceRecord, len(list))
	for i, piece := range list {
		r[i] = bayou.PieceRecord{
			Type:       piece.Type,
			BoardIndex: int(piece.BoardIndex),
		}
	}
	return r
}
