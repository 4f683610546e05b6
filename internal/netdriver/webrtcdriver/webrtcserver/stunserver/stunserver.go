package stunserver

import (
	"log"
	"net"
	"strconv"

	"github.com/pion/stun"
	"github.com/pion/turn/v2"
	"github.com/pkg/errors"
)

type Options struct {
	PublicIP string
	Port     int
	// Verbose logs every STUN message in and out
	Verbose bool
}

// stunLogger wraps a PacketConn and prints incoming/outgoing STUN packets
type stunLogger struct {
	net.PacketConn
}

func (s *stunLogger) WriteTo(p []byte, addr net.Addr) (n int, err error) {
	if n, err = s.PacketConn.WriteTo(p, addr); err == nil && stun.IsMessage(p) {
		msg := &stun.Message{Raw: p}
		if err = msg.Decode(); err != nil {
			return
		}
		log.Printf("outbound stun: %s", msg.String())
	}
	return
}

func (s *stunLogger) ReadFrom(p []byte) (n int, addr net.Addr, err error) {
	if n, addr, err = s.PacketConn.ReadFrom(p); err == nil && stun.IsMessage(p[:n]) {
		msg := &stun.Message{Raw: p[:n]}
		if err = msg.Decode(); err != nil {
			return
		}
		log.Printf("inbound stun: %s", msg.String())
	}
	return
}

// ListenAndStart runs a STUN-only server so clients behind NAT can find
// the address to reach the match server on. TURN relaying is refused.
func ListenAndStart(options Options) (*turn.Server, error) {
	if options.PublicIP == "" {
		return nil, errors.New("cannot give empty string for public ip")
	}
	publicIP := net.ParseIP(options.PublicIP)
	if publicIP == nil {
		return nil, errors.Errorf("invalid public ip: %q", options.PublicIP)
	}
	udpListener, err := net.ListenPacket("udp4", "0.0.0.0:"+strconv.Itoa(options.Port))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create STUN server listener")
	}
	if options.Verbose {
		udpListener = &stunLogger{udpListener}
	}
	s, err := turn.NewServer(turn.ServerConfig{
		Realm: "bayou",
		// no user can authenticate, so nothing can be relayed
		AuthHandler: func(username string, realm string, srcAddr net.Addr) ([]byte, bool) {
			return nil, false
		},
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: udpListener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: publicIP,
					Address:      "0.0.0.0",
				},
			},
		},
	})
	if err != nil {
		udpListener.Close()
		return nil, errors.Wrap(err, "unable to start STUN server")
	}
	return s, nil
}
