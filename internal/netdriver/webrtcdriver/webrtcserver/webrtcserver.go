package webrtcserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pion/turn/v2"
	"github.com/pion/webrtc/v3"
	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcserver/stunserver"
	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
)

const (
	defaultMaxConnections       = 2
	defaultPacketLimitPerClient = 256
)

var (
	ErrServerFull       = errors.New("server is full")
	ErrInvalidChannel   = errors.New("invalid data channel")
	// ErrConnectionClosed matches what pion returns for a closed channel
	ErrConnectionClosed = io.ErrClosedPipe
)

type Server struct {
	api         *webrtc.API
	options     Options
	stunServer  *turn.Server
	httpServer  *http.Server
	connections []*Connection
	isListening atomic.Bool
	lastError   atomic.Value
}

type Options struct {
	// MaxConnections defaults to 2, one per seat
	MaxConnections int
	// HTTPPort serves SDP offers, 0 uses webrtcshared.DefaultHTTPPort
	HTTPPort int
	// STUNPort is the UDP port of the built-in STUN server, 0 uses
	// webrtcshared.DefaultSTUNPort
	STUNPort int
	// PublicIP is advertised by the STUN server, required
	PublicIP      string
	ICEServerURLs []string
	Verbose       bool
}

type Connection struct {
	mu             sync.Mutex
	peerConnection *webrtc.PeerConnection
	dataChannel    *webrtc.DataChannel
	packets        chan []byte
	isConnected    bool
	claimed        bool
}

func (s *Server) Connections() []*Connection {
	return s.connections
}

func (conn *Connection) IsConnected() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.isConnected
}

func (conn *Connection) Read() ([]byte, bool) {
	conn.mu.Lock()
	packets := conn.packets
	conn.mu.Unlock()
	select {
	case data := <-packets:
		return data, true
	default:
		return nil, false
	}
}

func (conn *Connection) Send(data []byte) error {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.dataChannel == nil {
		return ErrConnectionClosed
	}
	return conn.dataChannel.Send(data)
}

// CloseButDontFree closes the connection but keeps its slot taken. The
// game loop frees it with Free once it has noticed the seat is empty.
func (conn *Connection) CloseButDontFree() {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.closeLocked()
}

// closeLocked must be called with conn.mu held
func (conn *Connection) closeLocked() {
	if conn.peerConnection != nil {
		conn.peerConnection.Close()
		conn.peerConnection = nil
	}
	if conn.dataChannel != nil {
		conn.dataChannel.Close()
		conn.dataChannel = nil
	}
	conn.packets = nil
	conn.isConnected = false
}

// release closes the connection and gives its slot straight back
func (conn *Connection) release() {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.closeLocked()
	conn.claimed = false
}

// Free gives a closed connection's slot back to the server
func (conn *Connection) Free() {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.isConnected {
		panic("cannot call Free if connection is still connected")
	}
	conn.claimed = false
}

func New(options Options) *Server {
	if options.HTTPPort == 0 {
		options.HTTPPort = webrtcshared.DefaultHTTPPort
	}
	if options.STUNPort == 0 {
		options.STUNPort = webrtcshared.DefaultSTUNPort
	}
	if options.MaxConnections == 0 {
		options.MaxConnections = defaultMaxConnections
	}
	if options.PublicIP == "" {
		panic("cannot provide empty IP address")
	}

	s := &Server{}
	s.options = options
	s.connections = make([]*Connection, options.MaxConnections)
	for i := 0; i < options.MaxConnections; i++ {
		s.connections[i] = &Connection{}
	}
	return s
}

func (s *Server) IsListening() bool {
	return s.isListening.Load()
}

// GetLastError returns the error that stopped the server, if any
func (s *Server) GetLastError() error {
	v := s.lastError.Load()
	if v == nil {
		return nil
	}
	return v.(error)
}

// sdpError logs err and replies with message, the client only sees message
func sdpError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	} else {
		log.Print(message)
	}
	http.Error(w, message, status)
}

// handleSDP answers a client's offer. The reply holds every ICE candidate
// so no trickle ICE round trips are needed.
func (s *Server) handleSDP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", http.MethodPost)
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
	switch {
	case r.Method == http.MethodOptions:
		return
	case r.Method != http.MethodPost:
		sdpError(w, http.StatusBadRequest, "expected a "+http.MethodPost+" request", nil)
		return
	case r.Body == nil:
		sdpError(w, http.StatusBadRequest, "missing request body", nil)
		return
	case !s.hasFreeConnection():
		sdpError(w, http.StatusServiceUnavailable, ErrServerFull.Error(), nil)
		return
	}

	var offer webrtc.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		sdpError(w, http.StatusBadRequest, "error decoding offer", err)
		return
	}

	peerConnection, err := s.api.NewPeerConnection(webrtc.Configuration{
		ICEServers:   []webrtc.ICEServer{{URLs: s.options.ICEServerURLs}},
		SDPSemantics: webrtc.SDPSemanticsUnifiedPlan,
	})
	if err != nil {
		sdpError(w, http.StatusInternalServerError, "error creating peer connection", err)
		return
	}
	handedOff := false
	defer func() {
		if !handedOff {
			peerConnection.Close()
		}
	}()

	// "disconnected" can recover on flaky networks, only give up on these
	peerConnection.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		if state == webrtc.ICEConnectionStateClosed ||
			state == webrtc.ICEConnectionStateFailed {
			peerConnection.Close()
		}
	})

	if err := peerConnection.SetRemoteDescription(offer); err != nil {
		sdpError(w, http.StatusInternalServerError, "error setting remote description", err)
		return
	}
	answer, err := peerConnection.CreateAnswer(nil)
	if err != nil {
		sdpError(w, http.StatusInternalServerError, "error creating answer", err)
		return
	}
	candidates, err := gatherCandidates(r.Context(), peerConnection, answer)
	if err != nil {
		sdpError(w, http.StatusInternalServerError, "error gathering ice candidates", err)
		return
	}

	conn := s.claimConnection(peerConnection)
	if conn == nil {
		sdpError(w, http.StatusServiceUnavailable, ErrServerFull.Error(), nil)
		return
	}
	handedOff = true
	peerConnection.OnDataChannel(conn.onDataChannel)

	if err := json.NewEncoder(w).Encode(&webrtcshared.ConnectResponse{
		Candidates: candidates,
		Answer:     answer,
	}); err != nil {
		conn.release()
		sdpError(w, http.StatusInternalServerError, "unable to encode connection response", err)
	}
}

// gatherCandidates sets the local description and waits until ICE gathering
// is done
func gatherCandidates(ctx context.Context, peerConnection *webrtc.PeerConnection, answer webrtc.SessionDescription) ([]webrtc.ICECandidateInit, error) {
	var (
		mu         sync.Mutex
		candidates []webrtc.ICECandidateInit
		addErr     error
		done       = make(chan struct{})
	)
	// registered before SetLocalDescription so none are missed
	peerConnection.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		if candidate == nil {
			close(done)
			return
		}
		candidateInit := candidate.ToJSON()
		mu.Lock()
		defer mu.Unlock()
		if err := peerConnection.AddICECandidate(candidateInit); err != nil {
			if addErr == nil {
				addErr = err
			}
			return
		}
		candidates = append(candidates, candidateInit)
	})

	// starts our UDP listeners
	if err := peerConnection.SetLocalDescription(answer); err != nil {
		return nil, errors.Wrap(err, "set local description")
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if addErr != nil {
		return nil, errors.Wrap(addErr, "add ice candidate")
	}
	if len(candidates) == 0 {
		return nil, errors.New("no ice candidates")
	}
	return candidates, nil
}

func (s *Server) hasFreeConnection() bool {
	for _, conn := range s.connections {
		conn.mu.Lock()
		claimed := conn.claimed
		conn.mu.Unlock()
		if !claimed {
			return true
		}
	}
	return false
}

// claimConnection marks the first free slot as used, nil if there are none
func (s *Server) claimConnection(peerConnection *webrtc.PeerConnection) *Connection {
	for _, conn := range s.connections {
		conn.mu.Lock()
		if conn.claimed {
			conn.mu.Unlock()
			continue
		}
		conn.claimed = true
		conn.peerConnection = peerConnection
		conn.mu.Unlock()
		return conn
	}
	return nil
}

func (conn *Connection) onDataChannel(dataChannel *webrtc.DataChannel) {
	if err := isValidDataChannel(dataChannel); err != nil {
		log.Printf("%v", err)
		dataChannel.Close()
		conn.release()
		return
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.dataChannel != nil {
		// only one data channel per client
		dataChannel.Close()
		return
	}
	conn.packets = make(chan []byte, defaultPacketLimitPerClient)
	// a client only counts as connected once a data channel is open, if
	// the server's UDP ports aren't reachable this is never reached
	conn.isConnected = true
	conn.dataChannel = dataChannel
	conn.dataChannel.OnMessage(conn.onDataChannelMessage)
	conn.dataChannel.OnClose(conn.onDataChannelClose)
}

// isValidDataChannel only accepts the reliable, ordered channel the client
// opens. Moves must arrive exactly once and in order.
func isValidDataChannel(dataChannel *webrtc.DataChannel) error {
	if dataChannel.Label() != webrtcshared.DataChannelLabel {
		return errors.Wrapf(ErrInvalidChannel, "label %q, expected %q", dataChannel.Label(), webrtcshared.DataChannelLabel)
	}
	if !dataChannel.Ordered() {
		return errors.Wrap(ErrInvalidChannel, "must be \"ordered: true\"")
	}
	if dataChannel.MaxRetransmits() != nil {
		return errors.Wrap(ErrInvalidChannel, "\"maxRetransmits\" must not be set")
	}
	if dataChannel.MaxPacketLifeTime() != nil {
		return errors.Wrap(ErrInvalidChannel, "\"maxPacketLifeTime\" must not be set")
	}
	return nil
}

func (conn *Connection) onDataChannelClose() {
	conn.CloseButDontFree()
}

func (conn *Connection) onDataChannelMessage(msg webrtc.DataChannelMessage) {
	conn.mu.Lock()
	packets := conn.packets
	conn.mu.Unlock()
	if packets == nil {
		return
	}
	select {
	case packets <- msg.Data:
	default:
		log.Printf("dropping client, more than %d packets unread", defaultPacketLimitPerClient)
		conn.CloseButDontFree()
	}
}

// Handler returns the SDP handler, for serving from an existing mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(webrtcshared.SDPPath, s.handleSDP)
	return mux
}

// Start runs the STUN and SDP servers in the background, check IsListening
// and GetLastError for progress
func (s *Server) Start() {
	go func() {
		if err := s.start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server stopped: %+v", err)
			s.lastError.Store(err)
		}
	}()
}

func (s *Server) start() error {
	s.isListening.Store(false)
	stunServer, err := stunserver.ListenAndStart(stunserver.Options{
		PublicIP: s.options.PublicIP,
		Port:     s.options.STUNPort,
		Verbose:  s.options.Verbose,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start stun server")
	}
	s.stunServer = stunServer
	defer s.stunServer.Close()

	settings := webrtc.SettingEngine{}
	// explicit UDP port range to open on the server box
	if err := settings.SetEphemeralUDPPortRange(10000, 11999); err != nil {
		return errors.Wrap(err, "failed to set UDP port range for server")
	}
	s.api = webrtc.NewAPI(webrtc.WithSettingEngine(settings))

	s.httpServer = &http.Server{
		Addr:    ":" + strconv.Itoa(s.options.HTTPPort),
		Handler: s.Handler(),
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.Wrap(err, "failed to listen on "+s.httpServer.Addr)
	}
	s.isListening.Store(true)
	defer s.isListening.Store(false)
	if err := s.httpServer.Serve(ln); err != nil {
		return errors.Wrap(err, "server closed")
	}
	return nil
}

// Shutdown stops accepting new clients and closes every connection
func (s *Server) Shutdown(ctx context.Context) error {
	for _, conn := range s.connections {
		conn.CloseButDontFree()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
