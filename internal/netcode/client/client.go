package client

import (
	"bytes"
	"io"
	"log"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/netcode"
	"github.com/shoeengine/bayou/internal/netcode/ack"
	"github.com/shoeengine/bayou/internal/netcode/netconf"
	"github.com/shoeengine/bayou/internal/netcode/packs"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcclient"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
	"github.com/shoeengine/bayou/internal/world"
)

// compile-time assert we implement this interface
var _ netcode.Controller = new(Controller)

func New(options netconf.Options) *Controller {
	httpPort := options.HTTPPort
	if httpPort == 0 {
		httpPort = webrtcshared.DefaultHTTPPort
	}
	stunPort := options.STUNPort
	if stunPort == 0 {
		stunPort = webrtcshared.DefaultSTUNPort
	}
	net := &Controller{}
	net.client = webrtcclient.New(webrtcclient.Options{
		IPAddress:     options.PublicIP + ":" + strconv.Itoa(httpPort),
		ICEServerURLs: []string{"stun:" + options.PublicIP + ":" + strconv.Itoa(stunPort)},
	})
	return net
}

type Controller struct {
	client *webrtcclient.Client

	buf        *bytes.Buffer
	backingBuf [65536]byte
	tracker    ack.Tracker
	ackPacket  packs.AckPacket

	hasStarted   bool
	hasConnected bool
	err          error
}

func (net *Controller) HasStartedOrConnected() bool {
	return net.client.IsConnected()
}

func (net *Controller) Err() error {
	if net.err != nil {
		return net.err
	}
	return net.client.GetLastError()
}

func (net *Controller) init() {
	net.buf = bytes.NewBuffer(net.backingBuf[:0])
	net.client.Start()
}

func (net *Controller) BeforeUpdate(world *world.World) {
	if !net.hasStarted {
		net.init()
		net.hasStarted = true
	}
	if net.Err() != nil {
		return
	}
	if !net.client.IsConnected() {
		if net.hasConnected {
			net.err = errors.New("disconnected from server")
		}
		// If not ready yet, don't try to process packets
		return
	}
	if !net.hasConnected {
		log.Printf("connected to server")
		net.hasConnected = true
	}

	for {
		byteData, ok := net.client.Read()
		if !ok {
			// If no more packet data
			break
		}
		if err := net.readPackets(world, byteData); err != nil {
			net.err = err
			return
		}
	}

	if err := net.writeUpdate(world); err != nil {
		net.err = err
		return
	}
	if net.buf.Len() == 0 {
		return
	}
	if err := net.client.Send(net.buf.Bytes()); err != nil {
		net.err = err
	}
}

// readPackets handles one datagram worth of packets. The newest board
// state wins, older ones still in flight are ignored.
func (net *Controller) readPackets(world *world.World, byteData []byte) error {
	var buf bytes.Reader
	buf.Reset(byteData)
	for {
		sequenceID, packet, err := packs.Read(&buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if _, ok := packet.(*packs.AckPacket); !ok {
			// To avoid recursion, we don't acknowledge acknowledgement packets
			net.ackPacket.SequenceIDList = append(net.ackPacket.SequenceIDList, sequenceID)
		}
		switch packet := packet.(type) {
		case *packs.AckPacket:
			for _, seqID := range packet.SequenceIDList {
				net.tracker.Ack(seqID)
			}
		case *packs.BoardStatePacket:
			if !net.tracker.Received(sequenceID) {
				continue
			}
			if err := world.SyncToSnapshot(packet); err != nil {
				log.Printf("bad board state from server: %v", err)
			}
		default:
			log.Printf("unhandled packet type: %T", packet)
		}
	}
}

// writeUpdate fills net.buf with acks and the moves queued since the last
// update. Moves made out of turn are dropped here, the server would refuse
// them anyway.
func (net *Controller) writeUpdate(world *world.World) error {
	net.buf.Reset()
	if len(net.ackPacket.SequenceIDList) > 0 {
		if err := packs.Write(net.buf, &net.tracker, &net.ackPacket); err != nil {
			return err
		}
		net.ackPacket.SequenceIDList = net.ackPacket.SequenceIDList[:0]
	}
	for _, action := range world.TakePending() {
		if world.Turn != world.MyPlayer {
			log.Printf("not your turn, dropping %T", action)
			continue
		}
		packet, err := netcode.ActionToPacket(action, world.Names)
		if err != nil {
			log.Printf("unable to send move: %v", err)
			continue
		}
		if err := packs.Write(net.buf, &net.tracker, packet); err != nil {
			return err
		}
	}
	return nil
}
