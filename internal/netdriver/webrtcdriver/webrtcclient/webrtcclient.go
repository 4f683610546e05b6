package webrtcclient

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/pkg/errors"

	"github.com/shoeengine/bayou/internal/netdriver/webrtcdriver/webrtcshared"
)

const (
	connectTimeout   = 10 * time.Second
	maxUnreadPackets = 256
)

type Client struct {
	options Options

	mu             sync.Mutex
	packets        chan []byte
	peerConnection *webrtc.PeerConnection
	dataChannel    *webrtc.DataChannel

	lastAtomicError atomic.Value

	hasConnectedOnce atomic.Bool
	isConnected      atomic.Bool
}

type Options struct {
	// IPAddress is the host:port of the server's SDP handler
	IPAddress     string
	ICEServerURLs []string
}

func New(options Options) *Client {
	if options.IPAddress == "" {
		panic("cannot provide empty IP address")
	}
	return &Client{
		options: options,
		packets: make(chan []byte, maxUnreadPackets),
	}
}

func (client *Client) IsConnected() bool {
	return client.isConnected.Load()
}

// HasConnectedOnce is true if the client ever had an open data channel, even
// if it has since disconnected
func (client *Client) HasConnectedOnce() bool {
	return client.hasConnectedOnce.Load()
}

func (client *Client) Disconnect() {
	client.close()
}

func (client *Client) close() {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.dataChannel != nil {
		client.dataChannel.Close()
		client.dataChannel = nil
	}
	if client.peerConnection != nil {
		client.peerConnection.Close()
		client.peerConnection = nil
	}
	client.isConnected.Store(false)
}

func (client *Client) GetLastError() error {
	v := client.lastAtomicError.Load()
	if v == nil {
		return nil
	}
	return v.(error)
}

func (client *Client) Start() {
	go func() {
		if err := client.start(); err != nil {
			client.lastAtomicError.Store(err)
			return
		}
	}()
}

func (client *Client) Read() ([]byte, bool) {
	select {
	case data := <-client.packets:
		return data, true
	default:
		// if no data
		return nil, false
	}
}

// Send does nothing until the data channel is open
func (client *Client) Send(data []byte) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.dataChannel == nil {
		return nil
	}
	return client.dataChannel.Send(data)
}

// postConnect trades our SDP offer for the server's answer and ICE candidates
func postConnect(address string, offer webrtc.SessionDescription) (webrtcshared.ConnectResponse, error) {
	var resp webrtcshared.ConnectResponse
	body, err := json.Marshal(offer)
	if err != nil {
		return resp, errors.Wrap(err, "encode offer")
	}
	httpClient := &http.Client{Timeout: connectTimeout}
	httpResp, err := httpClient.Post("http://"+address+webrtcshared.SDPPath, "application/json; charset=utf-8", bytes.NewReader(body))
	if err != nil {
		return resp, errors.Wrap(err, "post offer")
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return resp, errors.Errorf("server refused connection: %s", httpResp.Status)
	}
	dec := json.NewDecoder(httpResp.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&resp); err != nil {
		return resp, errors.Wrap(err, "decode answer")
	}
	if len(resp.Candidates) == 0 {
		return resp, errors.New("server sent no ice candidates")
	}
	return resp, nil
}

func (client *Client) start() (err error) {
	peerConnection, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: client.options.ICEServerURLs}},
	})
	if err != nil {
		return errors.Wrap(err, "new peer connection")
	}
	defer func() {
		if err != nil {
			peerConnection.Close()
		}
	}()

	// nil init is a reliable, ordered channel
	dataChannel, err := peerConnection.CreateDataChannel(webrtcshared.DataChannelLabel, nil)
	if err != nil {
		return errors.Wrap(err, "create data channel")
	}
	dataChannel.OnOpen(func() {
		client.mu.Lock()
		client.peerConnection = peerConnection
		client.dataChannel = dataChannel
		client.mu.Unlock()
		client.isConnected.Store(true)
		client.hasConnectedOnce.Store(true)
	})
	dataChannel.OnMessage(client.onMessage)
	dataChannel.OnClose(func() {
		client.isConnected.Store(false)
	})

	// "disconnected" can recover on flaky networks, only give up on these
	peerConnection.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		if state == webrtc.ICEConnectionStateClosed ||
			state == webrtc.ICEConnectionStateFailed {
			client.close()
		}
	})

	offer, err := peerConnection.CreateOffer(nil)
	if err != nil {
		return errors.Wrap(err, "create offer")
	}
	if err := peerConnection.SetLocalDescription(offer); err != nil {
		return errors.Wrap(err, "set local description")
	}
	answer, err := postConnect(client.options.IPAddress, offer)
	if err != nil {
		return err
	}
	if err := peerConnection.SetRemoteDescription(answer.Answer); err != nil {
		return errors.Wrap(err, "set remote description")
	}
	for _, candidate := range answer.Candidates {
		if err := peerConnection.AddICECandidate(candidate); err != nil {
			return errors.Wrapf(err, "add ice candidate %s", candidate.Candidate)
		}
	}
	return nil
}

func (client *Client) onMessage(msg webrtc.DataChannelMessage) {
	select {
	case client.packets <- msg.Data:
	default:
		client.lastAtomicError.Store(errors.Errorf("more than %d packets unread", maxUnreadPackets))
		client.close()
	}
}
