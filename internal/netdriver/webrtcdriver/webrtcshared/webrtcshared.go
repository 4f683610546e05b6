// webrtcshared holds what the webrtc client and server agree on
package webrtcshared

import (
	"github.com/pion/webrtc/v3"
)

const (
	// SDPPath is where the server accepts connection offers
	SDPPath = "/sdp"
	// DataChannelLabel is the label of the one data channel a client opens
	DataChannelLabel = "bayou"

	DefaultHTTPPort = 50000
	DefaultSTUNPort = 3478
)

// ConnectResponse is the server's reply to an offer posted to SDPPath
type ConnectResponse struct {
	Candidates []webrtc.ICECandidateInit `json:"candidates"`
	Answer     webrtc.SessionDescription `json:"answer"`
}
