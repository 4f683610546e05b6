// packs is a package that holds the packet data structures and associates an ID with them
package packs

import (
	"encoding/binary"
	"io"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/netcode/ack"
	"github.com/shoeengine/bayou/internal/netcode/packbuf"
)

const (
	// packetInvalid    PacketID = 0
	packetAck        PacketID = 1
	packetAction     PacketID = 2
	packetBoardState PacketID = 3
)

// AckPacket is used by client/server to acknowledge that it received
// a packet (or multiple packets)
type AckPacket struct {
	SequenceIDList []uint16
}

func (packet *AckPacket) ID() PacketID {
	return packetAck
}

func init() {
	register(&AckPacket{})
}

type ActionKind uint8

const (
	ActionPlace  ActionKind = 1
	ActionRemove ActionKind = 2
)

// ActionPacket is a move sent from the client to the server.
// The server decides which player it belongs to from the connection.
type ActionPacket struct {
	Kind      ActionKind
	Row, Col  uint8
	PieceType string
}

func (packet *ActionPacket) ID() PacketID {
	return packetAction
}

func init() {
	register(&ActionPacket{})
}

// BoardStatePacket is the whole match state sent from the server to a client
type BoardStatePacket struct {
	// YourPlayer is the player the receiving client controls
	YourPlayer uint8
	// Turn is the player allowed to move next
	Turn    uint8
	Board   []uint8
	Player1 []PieceState
	Player2 []PieceState
}

// PieceState is a piece in a player's piece list, in list order
type PieceState struct {
	Type       string
	BoardIndex uint8
}

func (packet *BoardStatePacket) ID() PacketID {
	return packetBoardState
}

func init() {
	register(&BoardStatePacket{})
}

type PacketID uint8

var packetIDToType = make(map[PacketID]reflect.Type)

type Packet interface {
	ID() PacketID
}

type InvalidPacketID struct {
	id PacketID
}

func (err *InvalidPacketID) Error() string {
	return "invalid packet id: " + strconv.Itoa(int(err.id))
}

func register(packet Packet) {
	id := packet.ID()
	if _, ok := packetIDToType[id]; ok {
		panic("cannot register a packet with the same id twice: " + strconv.Itoa(int(id)))
	}
	packetIDToType[id] = reflect.TypeOf(packet).Elem()
}

// Read reads a packet written by Write and returns its sequence id
func Read(r io.Reader) (uint16, Packet, error) {
	var packetID PacketID
	if err := binary.Read(r, binary.LittleEndian, &packetID); err != nil {
		return 0, nil, err
	}
	packetType, ok := packetIDToType[packetID]
	if !ok {
		return 0, nil, &InvalidPacketID{
			id: packetID,
		}
	}
	var seqID uint16
	if err := binary.Read(r, binary.LittleEndian, &seqID); err != nil {
		return 0, nil, err
	}
	packet := reflect.New(packetType).Interface().(Packet)
	if err := packbuf.Read(r, packet); err != nil {
		return 0, nil, errors.Wrapf(err, "unable to read packet %d", packetID)
	}
	return seqID, packet, nil
}

// Write writes the packet id, the next sequence id from tracker, then the
// packet itself
func Write(w io.Writer, tracker *ack.Tracker, packet Packet) error {
	if err := binary.Write(w, binary.LittleEndian, packet.ID()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, tracker.Next()); err != nil {
		return err
	}
	if err := packbuf.Write(w, packet); err != nil {
		return errors.Wrapf(err, "unable to write packet %d", packet.ID())
	}
	return nil
}
