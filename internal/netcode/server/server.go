package server

import (
	"bytes"
	"io"
	"log"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/bayou"
	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/netcode/ack"
	"github.com/shoeengine/bayou/internal/netcode/netconf"
	"github.com/shoeengine/bayou/internal/netcode/packs"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcserver"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
	"github.com/shoeengine/bayou/internal/world"
)

// maxActionsPerUpdate is how many moves a client can send per update
// before it is disconnected. Only one can ever be legal.
const maxActionsPerUpdate = 8

// compile-time assert we implement this interface
var _ netcode.Controller = new(Controller)

func New(options netconf.Options) *Controller {
	net := &Controller{}
	net.server = webrtcserver.New(webrtcserver.Options{
		MaxConnections: bayou.NumPlayers,
		HTTPPort:       options.HTTPPort,
		STUNPort:       options.STUNPort,
		PublicIP:       options.PublicIP,
		ICEServerURLs:  []string{stunURL(options)},
		Verbose:        options.Verbose,
	})
	return net
}

func stunURL(options netconf.Options) string {
	port := options.STUNPort
	if port == 0 {
		port = webrtcshared.DefaultSTUNPort
	}
	return "stun:" + options.PublicIP + ":" + strconv.Itoa(port)
}

type Controller struct {
	server *webrtcserver.Server
	// seats are indexed the same as server connections, seat i plays
	// bayou.PlayerID(i)
	seats []*seat

	buf        *bytes.Buffer
	backingBuf [65536]byte

	hasStarted bool
}

// seat is data specifically related to game-logic and de-coupled from our network driver
type seat struct {
	Player    bayou.PlayerID
	IsUsed    bool
	AckPacket packs.AckPacket
	// NeedsState is set when the client should be sent the board
	NeedsState bool

	tracker ack.Tracker
}

func (net *Controller) init() {
	net.seats = make([]*seat, len(net.server.Connections()))
	for i := range net.seats {
		net.seats[i] = &seat{
			Player: bayou.PlayerID(i),
		}
	}
	net.buf = bytes.NewBuffer(net.backingBuf[:0])

	log.Printf("starting server...")
	net.server.Start()
}

func (net *Controller) HasStartedOrConnected() bool {
	return net.server.IsListening()
}

func (net *Controller) Err() error {
	return net.server.GetLastError()
}

func (net *Controller) BeforeUpdate(world *world.World) {
	if !net.hasStarted {
		net.init()
		net.hasStarted = true
	}
	// the server doesn't play, anything queued locally is dropped
	world.TakePending()

	stateChanged := false
	for i, conn := range net.server.Connections() {
		seat := net.seats[i]
		if !conn.IsConnected() {
			if seat.IsUsed {
				log.Printf("%v left", seat.Player)
				// reset slot
				*seat = *newSeat(seat.Player)
				conn.Free()
			}
			continue
		}
		if !seat.IsUsed {
			log.Printf("%v joined", seat.Player)
			seat.IsUsed = true
			seat.NeedsState = true
		}

		// read packets
		actionCount := 0
	MainReadLoop:
		for {
			byteData, ok := conn.Read()
			if !ok {
				break
			}
			var buf bytes.Reader
			buf.Reset(byteData)
			for {
				sequenceID, packet, err := packs.Read(&buf)
				if err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					log.Printf("unable to read packet from %v, closing: %v", seat.Player, err)
					conn.CloseButDontFree()
					break MainReadLoop
				}
				if _, ok := packet.(*packs.ActionPacket); ok {
					actionCount++
					if actionCount > maxActionsPerUpdate {
						log.Printf("disconnecting %v, sent more than %d moves in one update", seat.Player, maxActionsPerUpdate)
						conn.CloseButDontFree()
						break MainReadLoop
					}
				}
				if net.handlePacket(world, seat, sequenceID, packet) {
					stateChanged = true
				}
			}
		}
	}

	for i, conn := range net.server.Connections() {
		if !conn.IsConnected() {
			continue
		}
		seat := net.seats[i]
		if !seat.IsUsed {
			continue
		}
		if stateChanged {
			seat.NeedsState = true
		}
		if err := net.writeUpdate(world, seat); err != nil {
			log.Printf("failed to write update for %v, closing connection: %v", seat.Player, err)
			conn.CloseButDontFree()
			continue
		}
		if net.buf.Len() == 0 {
			continue
		}
		if net.buf.Len() > netcode.MaxPacketSize {
			log.Printf("warning: size of packet is %d, should be conservative and fit under %d", net.buf.Len(), netcode.MaxPacketSize)
		}
		if err := conn.Send(net.buf.Bytes()); err != nil {
			log.Printf("failed to send: %v", err)
			conn.CloseButDontFree()
			continue
		}
	}
}

func newSeat(player bayou.PlayerID) *seat {
	return &seat{Player: player}
}

// handlePacket applies one packet from a seat and reports whether the
// board changed
func (net *Controller) handlePacket(world *world.World, seat *seat, sequenceID uint16, packet packs.Packet) bool {
	if _, ok := packet.(*packs.AckPacket); !ok {
		// to avoid recursion, we don't acknowledge acknowledgement packets
		seat.AckPacket.SequenceIDList = append(seat.AckPacket.SequenceIDList, sequenceID)
	}
	switch packet := packet.(type) {
	case *packs.AckPacket:
		for _, seqID := range packet.SequenceIDList {
			seat.tracker.Ack(seqID)
		}
	case *packs.ActionPacket:
		action, err := netcode.PacketToAction(packet, seat.Player, world.Names)
		if err != nil {
			log.Printf("bad move from %v: %v", seat.Player, err)
			// resend the board so the client drops its guess
			seat.NeedsState = true
			return false
		}
		if err := world.Apply(seat.Player, action); err != nil {
			log.Printf("move rejected from %v: %v", seat.Player, err)
			seat.NeedsState = true
			return false
		}
		return true
	default:
		log.Printf("unhandled packet type: %T", packet)
	}
	return false
}

// writeUpdate fills net.buf with what the seat should be sent this update
func (net *Controller) writeUpdate(world *world.World, seat *seat) error {
	net.buf.Reset()
	if len(seat.AckPacket.SequenceIDList) > 0 {
		if err := packs.Write(net.buf, &seat.tracker, &seat.AckPacket); err != nil {
			return err
		}
		seat.AckPacket.SequenceIDList = seat.AckPacket.SequenceIDList[:0]
	}
	if seat.NeedsState {
		packet, err := world.Snapshot(seat.Player)
		if err != nil {
			return err
		}
		if err := packs.Write(net.buf, &seat.tracker, packet); err != nil {
			return err
		}
		seat.NeedsState = false
	}
	return nil
}
